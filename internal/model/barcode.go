package model

// DefaultBarcodeEncoding is the message encoding used when none is given.
const DefaultBarcodeEncoding = "iso-8859-1"

// Barcode is the scannable payload of a pass. Each barcode belongs to exactly
// one pass.
type Barcode struct {
	ID       int64         `json:"id"`
	Message  string        `json:"message"`
	Format   BarcodeFormat `json:"format"`
	Encoding string        `json:"encoding"`
	AltText  *string       `json:"alt_text,omitempty"`
}

// NewBarcode validates the format and returns a barcode with the default
// encoding.
func NewBarcode(message, format string) (*Barcode, error) {
	if message == "" {
		return nil, &MissingRequiredFieldError{Field: "message"}
	}
	f, err := ParseBarcodeFormat(format)
	if err != nil {
		return nil, err
	}
	return &Barcode{
		Message:  message,
		Format:   f,
		Encoding: DefaultBarcodeEncoding,
	}, nil
}
