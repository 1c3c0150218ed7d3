package model

import "time"

// FormatVersion is the pass file format version. It is the same for every pass.
const FormatVersion = 1

// Pass is the aggregate root of a wallet pass: identity, presentation, the
// barcode it owns, the locations it references and its five field groups.
//
// PassTypeIdentifier and SerialNumber are unique together.
type Pass struct {
	ID                 int64  `json:"id"`
	PassTypeIdentifier string `json:"pass_type_identifier"`
	SerialNumber       string `json:"serial_number"`
	OrganizationName   string `json:"organization_name"`
	TeamIdentifier     string `json:"team_identifier"`
	Description        string `json:"description"`

	AuthToken    *string    `json:"-"`
	RelevantDate *time.Time `json:"relevant_date,omitempty"`

	BackgroundColor string  `json:"background_color"`
	ForegroundColor *string `json:"foreground_color,omitempty"`
	LabelColor      *string `json:"label_color,omitempty"`

	// Image asset paths.
	Logo       *string `json:"logo,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	Thumbnail  *string `json:"thumbnail,omitempty"`
	Background *string `json:"background,omitempty"`
	Strip      *string `json:"strip,omitempty"`

	SuppressStripShine *bool   `json:"suppress_strip_shine,omitempty"`
	LogoText           *string `json:"logo_text,omitempty"`

	Type        PassType     `json:"type"`
	TransitType *TransitType `json:"transit_type,omitempty"`

	Barcode   *Barcode    `json:"barcode,omitempty"`
	Locations []*Location `json:"locations"`

	HeaderFields    []*Field `json:"header_fields"`
	PrimaryFields   []*Field `json:"primary_fields"`
	SecondaryFields []*Field `json:"secondary_fields"`
	AuxiliaryFields []*Field `json:"auxiliary_fields"`
	BackFields      []*Field `json:"back_fields"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPass validates the pass type and returns a pass with empty relations.
func NewPass(passTypeIdentifier, serialNumber, passType string) (*Pass, error) {
	if passTypeIdentifier == "" {
		return nil, &MissingRequiredFieldError{Field: "passTypeIdentifier"}
	}
	if serialNumber == "" {
		return nil, &MissingRequiredFieldError{Field: "serialNumber"}
	}
	t, err := ParsePassType(passType)
	if err != nil {
		return nil, err
	}
	return &Pass{
		PassTypeIdentifier: passTypeIdentifier,
		SerialNumber:       serialNumber,
		Type:               t,
	}, nil
}

// SetTransitType validates and sets the transit type of a boarding pass.
func (p *Pass) SetTransitType(s string) error {
	v, err := ParseTransitType(s)
	if err != nil {
		return err
	}
	p.TransitType = &v
	return nil
}

// Fields returns the fields of group g in order.
func (p *Pass) Fields(g FieldGroup) []*Field {
	switch g {
	case FieldGroupHeader:
		return p.HeaderFields
	case FieldGroupPrimary:
		return p.PrimaryFields
	case FieldGroupSecondary:
		return p.SecondaryFields
	case FieldGroupAuxiliary:
		return p.AuxiliaryFields
	case FieldGroupBack:
		return p.BackFields
	}
	return nil
}

// AddField appends f to group g.
func (p *Pass) AddField(g FieldGroup, f *Field) error {
	switch g {
	case FieldGroupHeader:
		p.HeaderFields = append(p.HeaderFields, f)
	case FieldGroupPrimary:
		p.PrimaryFields = append(p.PrimaryFields, f)
	case FieldGroupSecondary:
		p.SecondaryFields = append(p.SecondaryFields, f)
	case FieldGroupAuxiliary:
		p.AuxiliaryFields = append(p.AuxiliaryFields, f)
	case FieldGroupBack:
		p.BackFields = append(p.BackFields, f)
	default:
		return &InvalidEnumValueError{Attribute: "group", Value: string(g)}
	}
	return nil
}

// ImageKind names one of the five images a pass can reference.
type ImageKind string

// Image kinds.
const (
	ImageLogo       ImageKind = "logo"
	ImageIcon       ImageKind = "icon"
	ImageThumbnail  ImageKind = "thumbnail"
	ImageBackground ImageKind = "background"
	ImageStrip      ImageKind = "strip"
)

var ImageKinds = []ImageKind{
	ImageLogo,
	ImageIcon,
	ImageThumbnail,
	ImageBackground,
	ImageStrip,
}

// ParseImageKind validates s as an image kind.
func ParseImageKind(s string) (ImageKind, error) {
	return parseEnum("image", s, ImageKinds)
}

// Image returns the asset path stored for kind, or nil.
func (p *Pass) Image(kind ImageKind) *string {
	switch kind {
	case ImageLogo:
		return p.Logo
	case ImageIcon:
		return p.Icon
	case ImageThumbnail:
		return p.Thumbnail
	case ImageBackground:
		return p.Background
	case ImageStrip:
		return p.Strip
	}
	return nil
}

// SetImage stores the asset path for kind.
func (p *Pass) SetImage(kind ImageKind, path string) {
	switch kind {
	case ImageLogo:
		p.Logo = &path
	case ImageIcon:
		p.Icon = &path
	case ImageThumbnail:
		p.Thumbnail = &path
	case ImageBackground:
		p.Background = &path
	case ImageStrip:
		p.Strip = &path
	}
}
