package api

import (
	"time"

	"github.com/erazemk/passbook/internal/model"
)

type barcodeRequest struct {
	Message  string  `json:"message" validate:"required"`
	Format   string  `json:"format" validate:"required"`
	Encoding string  `json:"encoding"`
	AltText  *string `json:"alt_text"`
}

func (b *barcodeRequest) toModel() (*model.Barcode, error) {
	barcode, err := model.NewBarcode(b.Message, b.Format)
	if err != nil {
		return nil, err
	}
	if b.Encoding != "" {
		barcode.Encoding = b.Encoding
	}
	barcode.AltText = b.AltText
	return barcode, nil
}

type fieldRequest struct {
	Key           string  `json:"key" validate:"required"`
	Label         string  `json:"label"`
	Value         string  `json:"value"`
	TextAlignment *string `json:"text_alignment" validate:"omitempty,oneof=PKTextAlignmentLeft PKTextAlignmentCenter PKTextAlignmentRight PKTextAlignmentNatural"`
	ChangeMessage *string `json:"change_message"`
	DateStyle     *string `json:"date_style"`
	TimeStyle     *string `json:"time_style"`
	IsRelative    *bool   `json:"is_relative"`
	CurrencyCode  *string `json:"currency_code" validate:"omitempty,iso4217"`
	NumberStyle   *string `json:"number_style"`
}

func (f *fieldRequest) toModel() (*model.Field, error) {
	field, err := model.NewField(f.Key, f.Label, f.Value)
	if err != nil {
		return nil, err
	}
	field.TextAlignment = f.TextAlignment
	field.ChangeMessage = f.ChangeMessage
	field.IsRelative = f.IsRelative
	field.CurrencyCode = f.CurrencyCode
	if f.DateStyle != nil {
		if err := field.SetDateStyle(*f.DateStyle); err != nil {
			return nil, err
		}
	}
	if f.TimeStyle != nil {
		if err := field.SetTimeStyle(*f.TimeStyle); err != nil {
			return nil, err
		}
	}
	if f.NumberStyle != nil {
		if err := field.SetNumberStyle(*f.NumberStyle); err != nil {
			return nil, err
		}
	}
	return field, nil
}

type locationRequest struct {
	Longitude    *float64 `json:"longitude" validate:"required,longitude"`
	Latitude     *float64 `json:"latitude" validate:"required,latitude"`
	Altitude     *float64 `json:"altitude"`
	RelevantText *string  `json:"relevant_text"`
}

func (l *locationRequest) toModel() *model.Location {
	loc := model.NewLocation(*l.Longitude, *l.Latitude)
	loc.Altitude = l.Altitude
	loc.RelevantText = l.RelevantText
	return loc
}

// passMetadata holds the attributes of a pass that can change after it is
// created.
type passMetadata struct {
	OrganizationName   string     `json:"organization_name" validate:"required"`
	TeamIdentifier     string     `json:"team_identifier" validate:"required"`
	Description        string     `json:"description"`
	RelevantDate       *time.Time `json:"relevant_date"`
	BackgroundColor    string     `json:"background_color" validate:"omitempty,rgb"`
	ForegroundColor    *string    `json:"foreground_color" validate:"omitempty,rgb"`
	LabelColor         *string    `json:"label_color" validate:"omitempty,rgb"`
	SuppressStripShine *bool      `json:"suppress_strip_shine"`
	LogoText           *string    `json:"logo_text"`
	TransitType        *string    `json:"transit_type"`
}

func (m *passMetadata) apply(p *model.Pass) error {
	p.OrganizationName = m.OrganizationName
	p.TeamIdentifier = m.TeamIdentifier
	p.Description = m.Description
	p.RelevantDate = m.RelevantDate
	p.BackgroundColor = m.BackgroundColor
	p.ForegroundColor = m.ForegroundColor
	p.LabelColor = m.LabelColor
	p.SuppressStripShine = m.SuppressStripShine
	p.LogoText = m.LogoText
	p.TransitType = nil
	if m.TransitType != nil {
		return p.SetTransitType(*m.TransitType)
	}
	return nil
}

type updatePassRequest struct {
	passMetadata
	Barcode *barcodeRequest `json:"barcode"`
}

// createPassRequest carries a whole pass graph. Locations are either created
// inline or referenced by ID.
type createPassRequest struct {
	passMetadata
	PassTypeIdentifier string            `json:"pass_type_identifier" validate:"required"`
	SerialNumber       string            `json:"serial_number"`
	Type               string            `json:"type" validate:"required"`
	Barcode            *barcodeRequest   `json:"barcode"`
	LocationIDs        []int64           `json:"location_ids" validate:"dive,gt=0"`
	Locations          []locationRequest `json:"locations" validate:"dive"`
	HeaderFields       []fieldRequest    `json:"header_fields" validate:"dive"`
	PrimaryFields      []fieldRequest    `json:"primary_fields" validate:"dive"`
	SecondaryFields    []fieldRequest    `json:"secondary_fields" validate:"dive"`
	AuxiliaryFields    []fieldRequest    `json:"auxiliary_fields" validate:"dive"`
	BackFields         []fieldRequest    `json:"back_fields" validate:"dive"`
}

func (c *createPassRequest) groups() map[model.FieldGroup][]fieldRequest {
	return map[model.FieldGroup][]fieldRequest{
		model.FieldGroupHeader:    c.HeaderFields,
		model.FieldGroupPrimary:   c.PrimaryFields,
		model.FieldGroupSecondary: c.SecondaryFields,
		model.FieldGroupAuxiliary: c.AuxiliaryFields,
		model.FieldGroupBack:      c.BackFields,
	}
}

// toModel builds the pass graph. Referenced locations are resolved by the
// caller and appended after the inline ones.
func (c *createPassRequest) toModel() (*model.Pass, error) {
	p, err := model.NewPass(c.PassTypeIdentifier, c.SerialNumber, c.Type)
	if err != nil {
		return nil, err
	}
	if err := c.passMetadata.apply(p); err != nil {
		return nil, err
	}

	if c.Barcode != nil {
		if p.Barcode, err = c.Barcode.toModel(); err != nil {
			return nil, err
		}
	}

	groups := c.groups()
	for _, g := range model.FieldGroups {
		for i := range groups[g] {
			f, err := groups[g][i].toModel()
			if err != nil {
				return nil, err
			}
			if err := p.AddField(g, f); err != nil {
				return nil, err
			}
		}
	}

	for i := range c.Locations {
		p.Locations = append(p.Locations, c.Locations[i].toModel())
	}
	return p, nil
}
