package passjson

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/erazemk/passbook/internal/model"
)

var testSite = Site{Domain: "passes.example.com"}

func ptr[T any](v T) *T { return &v }

func newTestPass(t *testing.T, passType string) *model.Pass {
	t.Helper()
	p, err := model.NewPass("pass.com.example.store", "SN-1", passType)
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}
	p.OrganizationName = "Example Store"
	p.TeamIdentifier = "A1B2C3D4E5"
	p.Description = "Example store card"
	p.BackgroundColor = "rgb(255,255,255)"
	b, err := model.NewBarcode("123456", "PKBarcodeFormatQR")
	if err != nil {
		t.Fatalf("NewBarcode: %v", err)
	}
	p.Barcode = b
	return p
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return m
}

func TestGenericPassDocument(t *testing.T) {
	p := newTestPass(t, "generic")
	balance, _ := model.NewField("balance", "Balance", "42.00")
	p.AddField(model.FieldGroupPrimary, balance)

	data, err := Marshal(p, testSite, Options{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"formatVersion":1,` +
		`"passTypeIdentifier":"pass.com.example.store",` +
		`"serialNumber":"SN-1",` +
		`"teamIdentifier":"A1B2C3D4E5",` +
		`"webServiceURL":"https://passes.example.com/passbook",` +
		`"barcode":{"message":"123456","format":"PKBarcodeFormatQR","messageEncoding":"iso-8859-1"},` +
		`"organizationName":"Example Store",` +
		`"locations":[],` +
		`"generic":{"headerFields":[],` +
		`"primaryFields":[{"key":"balance","label":"Balance","value":"42.00"}],` +
		`"secondaryFields":[],"backFields":[]}}`
	if string(data) != want {
		t.Errorf("unexpected document\n got: %s\nwant: %s", data, want)
	}
}

func TestStyleKeyMatchesType(t *testing.T) {
	for _, pt := range model.PassTypes {
		p := newTestPass(t, string(pt))
		obj, err := Pass(p, testSite, Options{})
		if err != nil {
			t.Fatalf("Pass(%s): %v", pt, err)
		}
		keys := obj.Keys()
		if last := keys[len(keys)-1]; last != string(pt) {
			t.Errorf("expected style key %q, got %q", pt, last)
		}
		for _, other := range model.PassTypes {
			if other == pt {
				continue
			}
			if _, ok := obj.Get(string(other)); ok {
				t.Errorf("pass of type %s also has key %s", pt, other)
			}
		}
	}
}

func TestFieldGroupsRoundTrip(t *testing.T) {
	p := newTestPass(t, "eventTicket")
	counts := map[model.FieldGroup]int{
		model.FieldGroupHeader:    1,
		model.FieldGroupPrimary:   2,
		model.FieldGroupSecondary: 3,
		model.FieldGroupAuxiliary: 2,
		model.FieldGroupBack:      4,
	}
	for _, g := range model.FieldGroups {
		for i := 0; i < counts[g]; i++ {
			f, _ := model.NewField(string(g)+"-"+string(rune('a'+i)), "L", "v")
			p.AddField(g, f)
		}
	}

	data, err := Marshal(p, testSite, Options{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var doc struct {
		EventTicket json.RawMessage `json:"eventTicket"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	style := decode(t, doc.EventTicket)
	if len(style) != 4 {
		t.Errorf("expected exactly 4 field groups, got %d", len(style))
	}
	if _, ok := style["auxiliaryFields"]; ok {
		t.Error("auxiliaryFields must not be emitted by default")
	}

	// Group order within the style object.
	raw := string(doc.EventTicket)
	order := []string{"headerFields", "primaryFields", "secondaryFields", "backFields"}
	last := -1
	for _, key := range order {
		idx := strings.Index(raw, `"`+key+`"`)
		if idx <= last {
			t.Errorf("group %s out of order in %s", key, raw)
		}
		last = idx
	}

	groups := map[string]model.FieldGroup{
		"headerFields":    model.FieldGroupHeader,
		"primaryFields":   model.FieldGroupPrimary,
		"secondaryFields": model.FieldGroupSecondary,
		"backFields":      model.FieldGroupBack,
	}
	for key, g := range groups {
		fields := style[key].([]any)
		if len(fields) != counts[g] {
			t.Errorf("%s: expected %d fields, got %d", key, counts[g], len(fields))
		}
		for i, f := range fields {
			got := f.(map[string]any)["key"]
			if want := p.Fields(g)[i].Key; got != want {
				t.Errorf("%s[%d]: expected key %q, got %q", key, i, want, got)
			}
		}
	}
}

func TestAuxiliaryFieldsOption(t *testing.T) {
	p := newTestPass(t, "coupon")
	f, _ := model.NewField("expires", "Expires", "soon")
	p.AddField(model.FieldGroupAuxiliary, f)

	obj, err := Pass(p, testSite, Options{AuxiliaryFields: true})
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	style, _ := obj.Get("coupon")
	keys := style.(Object).Keys()
	want := []string{"headerFields", "primaryFields", "secondaryFields", "auxiliaryFields", "backFields"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Errorf("expected keys %v, got %v", want, keys)
	}
}

func TestFieldOmitsUnsetAttributes(t *testing.T) {
	f, _ := model.NewField("k", "Label", "v")
	obj, err := Field(f)
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if got := marshal(t, obj); got != `{"key":"k","label":"Label","value":"v"}` {
		t.Errorf("unexpected field object: %s", got)
	}
}

func TestFieldOptionalAttributes(t *testing.T) {
	tests := []struct {
		key string
		set func(f *model.Field, empty bool)
	}{
		{"textAlignment", func(f *model.Field, empty bool) {
			f.TextAlignment = ptr(pick(empty, "PKTextAlignmentRight"))
		}},
		{"changeMessage", func(f *model.Field, empty bool) {
			f.ChangeMessage = ptr(pick(empty, "Gate changed to %@"))
		}},
		{"dateStyle", func(f *model.Field, empty bool) {
			f.DateStyle = ptr(model.DateStyle(pick(empty, string(model.DateStyleShort))))
		}},
		{"timeStyle", func(f *model.Field, empty bool) {
			f.TimeStyle = ptr(model.DateStyle(pick(empty, string(model.DateStyleLong))))
		}},
		{"currencyCode", func(f *model.Field, empty bool) {
			f.CurrencyCode = ptr(pick(empty, "EUR"))
		}},
		{"numberStyle", func(f *model.Field, empty bool) {
			f.NumberStyle = ptr(model.NumberStyle(pick(empty, string(model.NumberStyleDecimal))))
		}},
	}

	for _, tt := range tests {
		// Unset.
		f, _ := model.NewField("k", "L", "v")
		obj, err := Field(f)
		if err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		if _, ok := obj.Get(tt.key); ok {
			t.Errorf("%s: emitted while unset", tt.key)
		}

		// Empty string.
		tt.set(f, true)
		obj, err = Field(f)
		if err != nil {
			t.Fatalf("%s empty: %v", tt.key, err)
		}
		if _, ok := obj.Get(tt.key); ok {
			t.Errorf("%s: emitted while empty", tt.key)
		}
		if strings.Contains(marshal(t, obj), "null") {
			t.Errorf("%s: null in output", tt.key)
		}

		// Set.
		tt.set(f, false)
		obj, err = Field(f)
		if err != nil {
			t.Fatalf("%s set: %v", tt.key, err)
		}
		if _, ok := obj.Get(tt.key); !ok {
			t.Errorf("%s: not emitted while set", tt.key)
		}
	}
}

func pick(empty bool, v string) string {
	if empty {
		return ""
	}
	return v
}

func TestFieldIsRelative(t *testing.T) {
	f, _ := model.NewField("k", "L", "v")
	obj, _ := Field(f)
	if _, ok := obj.Get("isRelative"); ok {
		t.Error("isRelative emitted while unset")
	}

	f.IsRelative = ptr(false)
	obj, _ = Field(f)
	v, ok := obj.Get("isRelative")
	if !ok || v != false {
		t.Errorf("expected isRelative=false to be emitted, got %v (%v)", v, ok)
	}
}

func TestFieldKeyOrder(t *testing.T) {
	f, _ := model.NewField("fare", "Fare", "12.5")
	f.NumberStyle = ptr(model.NumberStyleDecimal)
	f.CurrencyCode = ptr("USD")
	f.IsRelative = ptr(true)
	f.TimeStyle = ptr(model.DateStyleNone)
	f.DateStyle = ptr(model.DateStyleShort)
	f.ChangeMessage = ptr("Fare is now %@")
	f.TextAlignment = ptr("PKTextAlignmentLeft")

	obj, err := Field(f)
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	want := `{"key":"fare","label":"Fare","value":"12.5",` +
		`"textAlignment":"PKTextAlignmentLeft","changeMessage":"Fare is now %@",` +
		`"dateStyle":"PKDateStyleShort","timeStyle":"PKDateStyleNone","isRelative":true,` +
		`"currencyCode":"USD","numberStyle":"PKNumberStyleDecimal"}`
	if got := marshal(t, obj); got != want {
		t.Errorf("unexpected field object\n got: %s\nwant: %s", got, want)
	}
}

func TestFieldDateStyleWithoutTimeStyle(t *testing.T) {
	f, _ := model.NewField("date", "Date", "2026-10-17T09:00:00Z")
	if err := f.SetDateStyle("PKDateStyleShort"); err != nil {
		t.Fatalf("SetDateStyle: %v", err)
	}
	obj, err := Field(f)
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if _, ok := obj.Get("dateStyle"); !ok {
		t.Error("expected dateStyle key")
	}
	if _, ok := obj.Get("timeStyle"); ok {
		t.Error("unexpected timeStyle key")
	}
}

func TestFieldRejectsInvalidStyle(t *testing.T) {
	f, _ := model.NewField("k", "L", "v")
	f.NumberStyle = ptr(model.NumberStyle("roman"))
	_, err := Field(f)
	var enumErr *model.InvalidEnumValueError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumValueError, got %v", err)
	}
}

func TestBarcodeAlternativeText(t *testing.T) {
	b, _ := model.NewBarcode("ABC", "PKBarcodeFormatPDF417")

	obj, err := Barcode(b)
	if err != nil {
		t.Fatalf("Barcode: %v", err)
	}
	if got := marshal(t, obj); got != `{"message":"ABC","format":"PKBarcodeFormatPDF417","messageEncoding":"iso-8859-1"}` {
		t.Errorf("unexpected barcode: %s", got)
	}

	b.AltText = ptr("ABC-123")
	obj, _ = Barcode(b)
	if v, ok := obj.Get("alternativeText"); !ok || v != "ABC-123" {
		t.Errorf("expected alternativeText, got %v (%v)", v, ok)
	}

	// Set to an empty string is still set.
	b.AltText = ptr("")
	obj, _ = Barcode(b)
	if _, ok := obj.Get("alternativeText"); !ok {
		t.Error("expected alternativeText for empty but set alt text")
	}
}

func TestLocationOptionalKeys(t *testing.T) {
	tests := []struct {
		name     string
		altitude *float64
		text     *string
		want     string
	}{
		{"bare", nil, nil, `{"longitude":13.4,"latitude":52.52}`},
		{"altitude", ptr(34.0), nil, `{"longitude":13.4,"latitude":52.52,"altitude":34}`},
		{"zero altitude", ptr(0.0), nil, `{"longitude":13.4,"latitude":52.52,"altitude":0}`},
		{"empty text", nil, ptr(""), `{"longitude":13.4,"latitude":52.52}`},
		{"text", nil, ptr("Store nearby"), `{"longitude":13.4,"latitude":52.52,"relevantText":"Store nearby"}`},
	}

	for _, tt := range tests {
		l := model.NewLocation(13.4, 52.52)
		l.Altitude = tt.altitude
		l.RelevantText = tt.text
		if got := marshal(t, Location(l)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestLocationsKeepOrder(t *testing.T) {
	p := newTestPass(t, "storeCard")
	p.Locations = []*model.Location{
		model.NewLocation(1, 1),
		model.NewLocation(2, 2),
		model.NewLocation(3, 3),
	}
	obj, err := Pass(p, testSite, Options{})
	if err != nil {
		t.Fatalf("Pass: %v", err)
	}
	v, _ := obj.Get("locations")
	locations := v.([]Object)
	if len(locations) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(locations))
	}
	for i, l := range locations {
		lon, _ := l.Get("longitude")
		if lon != float64(i+1) {
			t.Errorf("location %d: expected longitude %d, got %v", i, i+1, lon)
		}
	}
}

func TestMissingBarcode(t *testing.T) {
	p := newTestPass(t, "generic")
	p.Barcode = nil

	data, err := Marshal(p, testSite, Options{})
	var relErr *model.MissingRequiredRelationError
	if !errors.As(err, &relErr) {
		t.Fatalf("expected MissingRequiredRelationError, got %v", err)
	}
	if relErr.Relation != "barcode" {
		t.Errorf("expected relation 'barcode', got %q", relErr.Relation)
	}
	if data != nil {
		t.Error("expected no output on error")
	}
}

func TestInvalidPassType(t *testing.T) {
	p := newTestPass(t, "generic")
	p.Type = "unknownType"

	_, err := Marshal(p, testSite, Options{})
	var enumErr *model.InvalidEnumValueError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumValueError, got %v", err)
	}
}

func TestMissingRequiredScalars(t *testing.T) {
	tests := []struct {
		field string
		clear func(p *model.Pass)
	}{
		{"teamIdentifier", func(p *model.Pass) { p.TeamIdentifier = "" }},
		{"organizationName", func(p *model.Pass) { p.OrganizationName = "" }},
		{"message", func(p *model.Pass) { p.Barcode.Message = "" }},
		{"key", func(p *model.Pass) {
			p.BackFields = []*model.Field{{Label: "no key"}}
		}},
	}

	for _, tt := range tests {
		p := newTestPass(t, "generic")
		tt.clear(p)
		_, err := Marshal(p, testSite, Options{})
		var missing *model.MissingRequiredFieldError
		if !errors.As(err, &missing) {
			t.Errorf("%s: expected MissingRequiredFieldError, got %v", tt.field, err)
			continue
		}
		if missing.Field != tt.field {
			t.Errorf("expected missing %q, got %q", tt.field, missing.Field)
		}
	}
}

func TestPresentationKeys(t *testing.T) {
	p := newTestPass(t, "boardingPass")
	p.AuthToken = ptr("0123456789abcdef0123")
	p.ForegroundColor = ptr("rgb(0,0,0)")
	p.LabelColor = ptr("")
	p.LogoText = ptr("Example Air")
	p.SuppressStripShine = ptr(true)
	p.RelevantDate = ptr(time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC))

	_, err := Pass(p, testSite, Options{PresentationKeys: true})
	var missing *model.MissingRequiredFieldError
	if !errors.As(err, &missing) || missing.Field != "transitType" {
		t.Fatalf("expected missing transitType, got %v", err)
	}

	if err := p.SetTransitType("PKTransitTypeAir"); err != nil {
		t.Fatalf("SetTransitType: %v", err)
	}
	data, err := Marshal(p, testSite, Options{PresentationKeys: true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	doc := decode(t, data)

	want := map[string]any{
		"description":         "Example store card",
		"authenticationToken": "0123456789abcdef0123",
		"relevantDate":        "2026-10-17T09:30:00Z",
		"backgroundColor":     "rgb(255,255,255)",
		"foregroundColor":     "rgb(0,0,0)",
		"logoText":            "Example Air",
		"suppressStripShine":  true,
	}
	for k, v := range want {
		if doc[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, doc[k])
		}
	}
	if _, ok := doc["labelColor"]; ok {
		t.Error("empty labelColor must be omitted")
	}
	style := doc["boardingPass"].(map[string]any)
	if style["transitType"] != "PKTransitTypeAir" {
		t.Errorf("expected transitType in style object, got %v", style["transitType"])
	}

	// Without the option the legacy document is unchanged.
	legacy := decode(t, mustMarshal(t, p, Options{}))
	if _, ok := legacy["description"]; ok {
		t.Error("description must only be emitted with presentation keys")
	}
	if _, ok := legacy["boardingPass"].(map[string]any)["transitType"]; ok {
		t.Error("transitType must only be emitted with presentation keys")
	}
}

func mustMarshal(t *testing.T, p *model.Pass, opts Options) []byte {
	t.Helper()
	data, err := Marshal(p, testSite, opts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return data
}

func TestConcurrentSerialization(t *testing.T) {
	p := newTestPass(t, "storeCard")
	f, _ := model.NewField("points", "Points", "1200")
	p.AddField(model.FieldGroupPrimary, f)
	p.Locations = []*model.Location{model.NewLocation(14.5, 46.05)}

	want := string(mustMarshal(t, p, Options{}))

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := Marshal(p, testSite, Options{})
			if err != nil {
				errs <- err.Error()
				return
			}
			if string(data) != want {
				errs <- "output differs between calls"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}
}

func TestWebServiceURL(t *testing.T) {
	if got := (Site{Domain: "example.org"}).WebServiceURL(); got != "https://example.org/passbook" {
		t.Errorf("unexpected URL %q", got)
	}
}
