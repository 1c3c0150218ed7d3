package model

import (
	"errors"
	"testing"
)

func TestNewPassUnknownType(t *testing.T) {
	_, err := NewPass("pass.com.example", "1", "unknownType")
	var enumErr *InvalidEnumValueError
	if !errors.As(err, &enumErr) {
		t.Fatalf("expected InvalidEnumValueError, got %v", err)
	}
	if enumErr.Attribute != "type" {
		t.Errorf("expected attribute 'type', got %q", enumErr.Attribute)
	}
}

func TestNewPassRequiredIdentity(t *testing.T) {
	tests := []struct {
		identifier string
		serial     string
		field      string
	}{
		{"", "1", "passTypeIdentifier"},
		{"pass.com.example", "", "serialNumber"},
	}

	for _, tt := range tests {
		_, err := NewPass(tt.identifier, tt.serial, "generic")
		var missing *MissingRequiredFieldError
		if !errors.As(err, &missing) {
			t.Errorf("NewPass(%q, %q): expected MissingRequiredFieldError, got %v", tt.identifier, tt.serial, err)
			continue
		}
		if missing.Field != tt.field {
			t.Errorf("expected missing field %q, got %q", tt.field, missing.Field)
		}
	}
}

func TestAddFieldGroups(t *testing.T) {
	p, err := NewPass("pass.com.example", "1", "storeCard")
	if err != nil {
		t.Fatalf("NewPass: %v", err)
	}

	for i, g := range FieldGroups {
		for j := 0; j <= i; j++ {
			f, _ := NewField(string(g), "Label", "value")
			if err := p.AddField(g, f); err != nil {
				t.Fatalf("AddField(%s): %v", g, err)
			}
		}
	}

	for i, g := range FieldGroups {
		if got := len(p.Fields(g)); got != i+1 {
			t.Errorf("group %s: expected %d fields, got %d", g, i+1, got)
		}
	}

	f, _ := NewField("x", "X", "x")
	if err := p.AddField("footer", f); err == nil {
		t.Error("expected error for unknown group")
	}
}

func TestSetTransitType(t *testing.T) {
	p, _ := NewPass("pass.com.example", "1", "boardingPass")
	if err := p.SetTransitType("PKTransitTypeAir"); err != nil {
		t.Fatalf("SetTransitType: %v", err)
	}
	if *p.TransitType != TransitTypeAir {
		t.Errorf("expected %q, got %q", TransitTypeAir, *p.TransitType)
	}
	if err := p.SetTransitType("rocket"); err == nil {
		t.Error("expected error for unknown transit type")
	}
	if *p.TransitType != TransitTypeAir {
		t.Error("failed assignment must not change the transit type")
	}
}

func TestPassImages(t *testing.T) {
	p, _ := NewPass("pass.com.example", "1", "coupon")
	for _, kind := range ImageKinds {
		if p.Image(kind) != nil {
			t.Errorf("expected no %s image on a new pass", kind)
		}
		p.SetImage(kind, "1/"+string(kind)+".png")
	}
	if got := *p.Image(ImageStrip); got != "1/strip.png" {
		t.Errorf("expected strip path, got %q", got)
	}
}

func TestNewBarcode(t *testing.T) {
	b, err := NewBarcode("123456", "PKBarcodeFormatQR")
	if err != nil {
		t.Fatalf("NewBarcode: %v", err)
	}
	if b.Encoding != DefaultBarcodeEncoding {
		t.Errorf("expected default encoding, got %q", b.Encoding)
	}
	if b.AltText != nil {
		t.Error("expected no alt text")
	}

	if _, err := NewBarcode("123456", "QR"); err == nil {
		t.Error("expected error for unknown format")
	}

	var missing *MissingRequiredFieldError
	if _, err := NewBarcode("", "PKBarcodeFormatQR"); !errors.As(err, &missing) {
		t.Errorf("expected MissingRequiredFieldError, got %v", err)
	}
}

func TestFieldStyleSetters(t *testing.T) {
	f, err := NewField("departs", "Departs", "2026-10-17T10:00:00Z")
	if err != nil {
		t.Fatalf("NewField: %v", err)
	}
	if err := f.SetDateStyle("PKDateStyleShort"); err != nil {
		t.Fatalf("SetDateStyle: %v", err)
	}
	if f.TimeStyle != nil {
		t.Error("time style should stay unset")
	}
	if err := f.SetTimeStyle("short"); err == nil {
		t.Error("expected error for invalid time style")
	}
	if err := f.SetNumberStyle("PKNumberStylePercent"); err != nil {
		t.Fatalf("SetNumberStyle: %v", err)
	}

	var missing *MissingRequiredFieldError
	if _, err := NewField("", "Label", "v"); !errors.As(err, &missing) {
		t.Errorf("expected MissingRequiredFieldError, got %v", err)
	}
}
