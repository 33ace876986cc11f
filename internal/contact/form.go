package contact

import "errors"

// Form is one session's view of the finder form: the record being typed, the
// last generated QR payload and the inline error text.
// Operations return a new Form and never modify the receiver.
type Form struct {
	Record   Record
	Payload  string
	Error    string
	defaults Record
}

// NewForm starts a form whose fields hold defaults.
func NewForm(defaults Record) Form {
	return Form{Record: defaults, defaults: defaults}
}

// Restore rebuilds a form from previously saved state.
func Restore(defaults, record Record, payload, errText string) Form {
	return Form{Record: record, Payload: payload, Error: errText, defaults: defaults}
}

// Defaults returns the record the form resets to.
func (f Form) Defaults() Record {
	return f.defaults
}

// Type applies one keystroke's resulting value to a field.
// A rejected value leaves the form unchanged and is reported through the error.
func (f Form) Type(field Field, value string) (Form, error) {
	record, err := f.Record.With(field, value)
	if err != nil {
		return f, err
	}
	f.Record = record
	return f, nil
}

// Generate builds the deep link from the current record.
// On success the payload is set, the error cleared and the record reset to
// defaults. When a required field is empty only the error text changes.
func (f Form) Generate() (Form, error) {
	link, err := f.Record.Link()
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			f.Error = MissingFieldsMessage
		}
		return f, err
	}
	f.Payload = link
	f.Error = ""
	f.Record = f.defaults
	return f, nil
}

// HasPayload reports whether a QR payload is available for display and export.
func (f Form) HasPayload() bool {
	return f.Payload != ""
}
