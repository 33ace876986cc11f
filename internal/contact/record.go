// Package contact holds the finder form: the contact record, per-keystroke
// filtering, completeness checks and the WhatsApp link encoder.
package contact

import (
	"errors"
	"fmt"

	"finderqr/internal/validation"
)

// Field identifies one input of the finder form.
type Field string

// Form fields, in display order.
const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldItem    Field = "item"
	FieldMessage Field = "message"
)

// MissingFieldsMessage is shown when a required field is empty.
const MissingFieldsMessage = "All fields are required!"

// DefaultMessage pre-fills the free-text message field.
const DefaultMessage = "If you find my item, please return it. I will give you blessings and a reward!"

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress, FieldItem, FieldMessage}

// RequiredFields lists the fields that must be non-empty before a link is built.
var RequiredFields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress, FieldItem}

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrRejected      = errors.New("keystroke rejected")
	ErrMissingFields = errors.New("required fields are missing")
)

// ParseField maps a form input name to a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns the human-readable label used in the message and the UI.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldPhone:
		return "Phone"
	case FieldAddress:
		return "Address"
	case FieldItem:
		return "Item"
	case FieldMessage:
		return "Message"
	}
	return string(f)
}

// Record is the set of form values for one submission.
// It is a value type: every change produces a new Record.
type Record struct {
	Name    string `json:"name" yaml:"name"`
	Email   string `json:"email" yaml:"email"`
	Phone   string `json:"phone" yaml:"phone"`
	Address string `json:"address" yaml:"address"`
	Item    string `json:"item" yaml:"item"`
	Message string `json:"message" yaml:"message"`
}

// NewRecord returns an empty record with the default message.
func NewRecord() Record {
	return Record{Message: DefaultMessage}
}

// Get returns the value of a field.
func (r Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldAddress:
		return r.Address
	case FieldItem:
		return r.Item
	case FieldMessage:
		return r.Message
	}
	return ""
}

// With returns a copy of r with the field set to value.
// Disallowed values are rejected with an error wrapping ErrRejected and r is
// returned unchanged.
func (r Record) With(f Field, value string) (Record, error) {
	if err := Accept(f, value); err != nil {
		return r, err
	}

	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldAddress:
		r.Address = value
	case FieldItem:
		r.Item = value
	case FieldMessage:
		r.Message = value
	}
	return r, nil
}

// Accept checks whether value may be stored in the field.
func Accept(f Field, value string) error {
	switch f {
	case FieldName:
		if !validation.ValidateName(value) {
			return fmt.Errorf("%w: name must contain letters and spaces only", ErrRejected)
		}
	case FieldPhone:
		if valid, msg := validation.ValidatePhone(value); !valid {
			return fmt.Errorf("%w: %s", ErrRejected, msg)
		}
	case FieldEmail, FieldAddress, FieldItem, FieldMessage:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	return nil
}

// Missing returns the required fields that are still empty.
func (r Record) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if validation.IsBlank(r.Get(f)) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate returns ErrMissingFields if any required field is empty.
func (r Record) Validate() error {
	if len(r.Missing()) > 0 {
		return ErrMissingFields
	}
	return nil
}
