// Package passjson turns pass entities into the pass.json document read by
// the wallet.
//
// Every function here is a pure read of its input. Optional attributes are
// omitted from the output when unset, never written as null or "".
package passjson

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/erazemk/passbook/internal/model"
)

// WebServicePath is the route the wallet web service is mounted on.
const WebServicePath = "/passbook"

// Site is the deployment a pass is served from.
type Site struct {
	Domain string
}

// WebServiceURL returns the base URL the wallet uses to fetch pass updates.
func (s Site) WebServiceURL() string {
	return "https://" + s.Domain + WebServicePath
}

// Options enables keys beyond the legacy document.
type Options struct {
	// AuxiliaryFields emits the auxiliary field group in the style object.
	AuxiliaryFields bool
	// PresentationKeys emits description, colors, logo text, relevant date,
	// authentication token and, for boarding passes, the transit type.
	PresentationKeys bool
}

// styleKeys maps a pass type to the key its field groups nest under.
var styleKeys = map[model.PassType]string{
	model.PassTypeBoardingPass: "boardingPass",
	model.PassTypeCoupon:       "coupon",
	model.PassTypeEventTicket:  "eventTicket",
	model.PassTypeStoreCard:    "storeCard",
	model.PassTypeGeneric:      "generic",
}

// Marshal serializes p into pass.json bytes.
func Marshal(p *model.Pass, site Site, opts Options) ([]byte, error) {
	doc, err := Pass(p, site, opts)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding pass %s: %w", p.SerialNumber, err)
	}
	return data, nil
}

// Pass builds the pass.json object for p. It fails without producing partial
// output if the pass is incomplete.
func Pass(p *model.Pass, site Site, opts Options) (Object, error) {
	var doc Object

	if err := validatePass(p, opts); err != nil {
		return doc, err
	}
	barcode, err := Barcode(p.Barcode)
	if err != nil {
		return doc, err
	}

	locations := make([]Object, 0, len(p.Locations))
	for _, l := range p.Locations {
		if l == nil {
			return doc, &model.MissingRequiredRelationError{Relation: "location"}
		}
		locations = append(locations, Location(l))
	}

	style, err := styleObject(p, opts)
	if err != nil {
		return doc, err
	}

	doc.Set("formatVersion", model.FormatVersion)
	doc.Set("passTypeIdentifier", p.PassTypeIdentifier)
	doc.Set("serialNumber", p.SerialNumber)
	doc.Set("teamIdentifier", p.TeamIdentifier)
	doc.Set("webServiceURL", site.WebServiceURL())
	doc.Set("barcode", barcode)
	doc.Set("organizationName", p.OrganizationName)
	doc.Set("locations", locations)

	if opts.PresentationKeys {
		doc.Set("description", p.Description)
		setOptional(&doc, "authenticationToken", nonEmpty(p.AuthToken))
		if p.RelevantDate != nil {
			doc.Set("relevantDate", p.RelevantDate.Format(time.RFC3339))
		}
		doc.Set("backgroundColor", p.BackgroundColor)
		setOptional(&doc, "foregroundColor", nonEmpty(p.ForegroundColor))
		setOptional(&doc, "labelColor", nonEmpty(p.LabelColor))
		setOptional(&doc, "logoText", nonEmpty(p.LogoText))
		setOptional(&doc, "suppressStripShine", p.SuppressStripShine)
	}

	doc.Set(styleKeys[p.Type], style)
	return doc, nil
}

func validatePass(p *model.Pass, opts Options) error {
	if p == nil {
		return &model.MissingRequiredRelationError{Relation: "pass"}
	}
	if _, ok := styleKeys[p.Type]; !ok {
		return &model.InvalidEnumValueError{Attribute: "type", Value: string(p.Type)}
	}
	if p.Barcode == nil {
		return &model.MissingRequiredRelationError{Relation: "barcode"}
	}

	required := []struct {
		name  string
		value string
	}{
		{"passTypeIdentifier", p.PassTypeIdentifier},
		{"serialNumber", p.SerialNumber},
		{"teamIdentifier", p.TeamIdentifier},
		{"organizationName", p.OrganizationName},
	}
	for _, r := range required {
		if r.value == "" {
			return &model.MissingRequiredFieldError{Field: r.name}
		}
	}

	if p.TransitType != nil && !p.TransitType.Valid() {
		return &model.InvalidEnumValueError{Attribute: "transitType", Value: string(*p.TransitType)}
	}
	if opts.PresentationKeys && p.Type == model.PassTypeBoardingPass && p.TransitType == nil {
		return &model.MissingRequiredFieldError{Field: "transitType"}
	}
	return nil
}

func styleObject(p *model.Pass, opts Options) (Object, error) {
	var style Object

	if opts.PresentationKeys && p.Type == model.PassTypeBoardingPass {
		style.Set("transitType", *p.TransitType)
	}

	groups := []struct {
		key    string
		fields []*model.Field
		emit   bool
	}{
		{"headerFields", p.HeaderFields, true},
		{"primaryFields", p.PrimaryFields, true},
		{"secondaryFields", p.SecondaryFields, true},
		{"auxiliaryFields", p.AuxiliaryFields, opts.AuxiliaryFields},
		{"backFields", p.BackFields, true},
	}
	for _, g := range groups {
		if !g.emit {
			continue
		}
		fields, err := Fields(g.fields)
		if err != nil {
			return style, fmt.Errorf("%s: %w", g.key, err)
		}
		style.Set(g.key, fields)
	}
	return style, nil
}

// Barcode builds the barcode object.
func Barcode(b *model.Barcode) (Object, error) {
	var obj Object
	if b == nil {
		return obj, &model.MissingRequiredRelationError{Relation: "barcode"}
	}
	if b.Message == "" {
		return obj, &model.MissingRequiredFieldError{Field: "message"}
	}
	if !b.Format.Valid() {
		return obj, &model.InvalidEnumValueError{Attribute: "format", Value: string(b.Format)}
	}

	obj.Set("message", b.Message)
	obj.Set("format", b.Format)
	obj.Set("messageEncoding", b.Encoding)
	setOptional(&obj, "alternativeText", b.AltText)
	return obj, nil
}

// Fields builds the objects for a field group, keeping its order.
func Fields(fields []*model.Field) ([]Object, error) {
	out := make([]Object, 0, len(fields))
	for _, f := range fields {
		obj, err := Field(f)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// Field builds a field object. Optional keys follow the required ones in a
// fixed order.
func Field(f *model.Field) (Object, error) {
	var obj Object
	if f == nil {
		return obj, &model.MissingRequiredRelationError{Relation: "field"}
	}
	if f.Key == "" {
		return obj, &model.MissingRequiredFieldError{Field: "key"}
	}
	if f.DateStyle != nil && *f.DateStyle != "" && !f.DateStyle.Valid() {
		return obj, &model.InvalidEnumValueError{Attribute: "dateStyle", Value: string(*f.DateStyle)}
	}
	if f.TimeStyle != nil && *f.TimeStyle != "" && !f.TimeStyle.Valid() {
		return obj, &model.InvalidEnumValueError{Attribute: "timeStyle", Value: string(*f.TimeStyle)}
	}
	if f.NumberStyle != nil && *f.NumberStyle != "" && !f.NumberStyle.Valid() {
		return obj, &model.InvalidEnumValueError{Attribute: "numberStyle", Value: string(*f.NumberStyle)}
	}

	obj.Set("key", f.Key)
	obj.Set("label", f.Label)
	obj.Set("value", f.Value)
	setOptional(&obj, "textAlignment", nonEmpty(f.TextAlignment))
	setOptional(&obj, "changeMessage", nonEmpty(f.ChangeMessage))
	setOptional(&obj, "dateStyle", nonEmpty(f.DateStyle))
	setOptional(&obj, "timeStyle", nonEmpty(f.TimeStyle))
	setOptional(&obj, "isRelative", f.IsRelative)
	setOptional(&obj, "currencyCode", nonEmpty(f.CurrencyCode))
	setOptional(&obj, "numberStyle", nonEmpty(f.NumberStyle))
	return obj, nil
}

// Location builds a location object.
func Location(l *model.Location) Object {
	var obj Object
	obj.Set("longitude", l.Longitude)
	obj.Set("latitude", l.Latitude)
	setOptional(&obj, "altitude", l.Altitude)
	setOptional(&obj, "relevantText", nonEmpty(l.RelevantText))
	return obj
}
