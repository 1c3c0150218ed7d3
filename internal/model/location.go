package model

// Location is a point near which a pass becomes relevant. Locations are shared
// between passes; a pass only references them.
type Location struct {
	ID           int64    `json:"id"`
	Longitude    float64  `json:"longitude"`
	Latitude     float64  `json:"latitude"`
	Altitude     *float64 `json:"altitude,omitempty"`
	RelevantText *string  `json:"relevant_text,omitempty"`
}

// NewLocation returns a location at the given coordinates.
func NewLocation(longitude, latitude float64) *Location {
	return &Location{Longitude: longitude, Latitude: latitude}
}
