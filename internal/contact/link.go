package contact

import (
	"strings"
)

// WhatsAppBaseURL is the deep-link prefix; the destination number follows it.
const WhatsAppBaseURL = "https://wa.me/"

const upperhex = "0123456789ABCDEF"

// Text builds the message sent to the owner when the link is opened.
func (r Record) Text() string {
	var b strings.Builder
	b.WriteString("Hello, I found an item!\n\n")
	b.WriteString("Name: " + r.Name + "\n")
	b.WriteString("Email: " + r.Email + "\n")
	b.WriteString("Phone: " + r.Phone + "\n")
	b.WriteString("Address: " + r.Address + "\n")
	b.WriteString("Item: " + r.Item + "\n\n")
	b.WriteString(`"` + r.Message + `"`)
	return b.String()
}

// Link validates the record and returns the WhatsApp deep link for it.
// The destination is the phone number entered on the form.
func (r Record) Link() (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	return WhatsAppBaseURL + r.Phone + "?text=" + EncodeComponent(r.Text()), nil
}

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// every byte except A-Z a-z 0-9 and - _ . ! ~ * ' ( ) becomes %XX.
// url.QueryEscape differs on space and on ! ' ( ) *, which would change the link.
func EncodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
