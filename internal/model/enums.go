package model

// PassType selects the style of a pass and the key its field groups nest under.
type PassType string

// Pass types.
const (
	PassTypeBoardingPass PassType = "boardingPass"
	PassTypeCoupon       PassType = "coupon"
	PassTypeEventTicket  PassType = "eventTicket"
	PassTypeStoreCard    PassType = "storeCard"
	PassTypeGeneric      PassType = "generic"
)

// PassTypes lists every pass type in display order.
var PassTypes = []PassType{
	PassTypeBoardingPass,
	PassTypeCoupon,
	PassTypeEventTicket,
	PassTypeStoreCard,
	PassTypeGeneric,
}

// Valid reports whether t is a known pass type.
func (t PassType) Valid() bool {
	return oneOf(t, PassTypes)
}

// ParsePassType validates s as a pass type.
func ParsePassType(s string) (PassType, error) {
	return parseEnum("type", s, PassTypes)
}

// TransitType describes the vehicle of a boarding pass.
type TransitType string

// Transit types.
const (
	TransitTypeAir     TransitType = "PKTransitTypeAir"
	TransitTypeTrain   TransitType = "PKTransitTypeTrain"
	TransitTypeBus     TransitType = "PKTransitTypeBus"
	TransitTypeBoat    TransitType = "PKTransitTypeBoat"
	TransitTypeGeneric TransitType = "PKTransitTypeGeneric"
)

var TransitTypes = []TransitType{
	TransitTypeAir,
	TransitTypeTrain,
	TransitTypeBus,
	TransitTypeBoat,
	TransitTypeGeneric,
}

func (t TransitType) Valid() bool {
	return oneOf(t, TransitTypes)
}

// ParseTransitType validates s as a transit type.
func ParseTransitType(s string) (TransitType, error) {
	return parseEnum("transitType", s, TransitTypes)
}

// BarcodeFormat is the symbology used to render a barcode.
type BarcodeFormat string

// Barcode formats.
const (
	BarcodeFormatPDF417 BarcodeFormat = "PKBarcodeFormatPDF417"
	BarcodeFormatQR     BarcodeFormat = "PKBarcodeFormatQR"
	BarcodeFormatAztec  BarcodeFormat = "PKBarcodeFormatAztec"
	BarcodeFormatText   BarcodeFormat = "PKBarcodeFormatText"
)

var BarcodeFormats = []BarcodeFormat{
	BarcodeFormatPDF417,
	BarcodeFormatQR,
	BarcodeFormatAztec,
	BarcodeFormatText,
}

func (f BarcodeFormat) Valid() bool {
	return oneOf(f, BarcodeFormats)
}

// ParseBarcodeFormat validates s as a barcode format.
func ParseBarcodeFormat(s string) (BarcodeFormat, error) {
	return parseEnum("format", s, BarcodeFormats)
}

// DateStyle is used for both the date and the time part of a field value.
type DateStyle string

// Date styles.
const (
	DateStyleNone   DateStyle = "PKDateStyleNone"
	DateStyleShort  DateStyle = "PKDateStyleShort"
	DateStyleMedium DateStyle = "PKDateStyleMedium"
	DateStyleLong   DateStyle = "PKDateStyleLong"
	DateStyleFull   DateStyle = "PKDateStyleFull"
)

var DateStyles = []DateStyle{
	DateStyleNone,
	DateStyleShort,
	DateStyleMedium,
	DateStyleLong,
	DateStyleFull,
}

func (s DateStyle) Valid() bool {
	return oneOf(s, DateStyles)
}

// ParseDateStyle validates s as a date style. attr names the attribute being
// set (dateStyle or timeStyle) for error reporting.
func ParseDateStyle(attr, s string) (DateStyle, error) {
	return parseEnum(attr, s, DateStyles)
}

// NumberStyle formats a numeric field value.
type NumberStyle string

// Number styles.
const (
	NumberStyleDecimal    NumberStyle = "PKNumberStyleDecimal"
	NumberStylePercent    NumberStyle = "PKNumberStylePercent"
	NumberStyleScientific NumberStyle = "PKNumberStyleScientific"
	NumberStyleSpellOut   NumberStyle = "PKNumberStyleSpellOut"
)

var NumberStyles = []NumberStyle{
	NumberStyleDecimal,
	NumberStylePercent,
	NumberStyleScientific,
	NumberStyleSpellOut,
}

func (s NumberStyle) Valid() bool {
	return oneOf(s, NumberStyles)
}

// ParseNumberStyle validates s as a number style.
func ParseNumberStyle(s string) (NumberStyle, error) {
	return parseEnum("numberStyle", s, NumberStyles)
}

// FieldGroup is one of the five positional groups of a pass.
type FieldGroup string

// Field groups, in the order they appear on a pass.
const (
	FieldGroupHeader    FieldGroup = "header"
	FieldGroupPrimary   FieldGroup = "primary"
	FieldGroupSecondary FieldGroup = "secondary"
	FieldGroupAuxiliary FieldGroup = "auxiliary"
	FieldGroupBack      FieldGroup = "back"
)

var FieldGroups = []FieldGroup{
	FieldGroupHeader,
	FieldGroupPrimary,
	FieldGroupSecondary,
	FieldGroupAuxiliary,
	FieldGroupBack,
}

func (g FieldGroup) Valid() bool {
	return oneOf(g, FieldGroups)
}

// ParseFieldGroup validates s as a field group.
func ParseFieldGroup(s string) (FieldGroup, error) {
	return parseEnum("group", s, FieldGroups)
}

func oneOf[T ~string](v T, set []T) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

func parseEnum[T ~string](attr, s string, set []T) (T, error) {
	v := T(s)
	if !oneOf(v, set) {
		var zero T
		return zero, &InvalidEnumValueError{Attribute: attr, Value: s}
	}
	return v, nil
}
