package model

// Field is a labeled value shown in one of the field groups of a pass.
//
// The date style pair and the number style pair are only meaningful when the
// value is a date or a number respectively. The wallet decides which applies;
// nothing here enforces that only one pair is set.
type Field struct {
	ID            int64        `json:"id"`
	Key           string       `json:"key"`
	Label         string       `json:"label"`
	Value         string       `json:"value"`
	TextAlignment *string      `json:"text_alignment,omitempty"`
	ChangeMessage *string      `json:"change_message,omitempty"`
	DateStyle     *DateStyle   `json:"date_style,omitempty"`
	TimeStyle     *DateStyle   `json:"time_style,omitempty"`
	IsRelative    *bool        `json:"is_relative,omitempty"`
	CurrencyCode  *string      `json:"currency_code,omitempty"`
	NumberStyle   *NumberStyle `json:"number_style,omitempty"`
}

// NewField returns a field with only the required attributes set.
func NewField(key, label, value string) (*Field, error) {
	if key == "" {
		return nil, &MissingRequiredFieldError{Field: "key"}
	}
	return &Field{Key: key, Label: label, Value: value}, nil
}

// SetDateStyle validates and sets the date style.
func (f *Field) SetDateStyle(s string) error {
	v, err := ParseDateStyle("dateStyle", s)
	if err != nil {
		return err
	}
	f.DateStyle = &v
	return nil
}

// SetTimeStyle validates and sets the time style.
func (f *Field) SetTimeStyle(s string) error {
	v, err := ParseDateStyle("timeStyle", s)
	if err != nil {
		return err
	}
	f.TimeStyle = &v
	return nil
}

// SetNumberStyle validates and sets the number style.
func (f *Field) SetNumberStyle(s string) error {
	v, err := ParseNumberStyle(s)
	if err != nil {
		return err
	}
	f.NumberStyle = &v
	return nil
}
