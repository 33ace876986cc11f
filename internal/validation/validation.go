package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// MaxPhoneDigits is the longest phone number the form accepts.
const MaxPhoneDigits = 10

// NamePattern defines the valid name format: ASCII letters and whitespace.
var NamePattern = regexp.MustCompile(`^[a-zA-Z\s]*$`)

// PhonePattern defines the valid phone format: digits only.
var PhonePattern = regexp.MustCompile(`^[0-9]*$`)

// ValidateName checks if a (possibly partial) name contains only letters and whitespace.
// Unicode whitespace such as a non-breaking space is accepted as well.
func ValidateName(name string) bool {
	if NamePattern.MatchString(name) {
		return true
	}
	for _, r := range name {
		if !unicode.IsSpace(r) && !isASCIILetter(r) {
			return false
		}
	}
	return true
}

// ValidatePhone checks if a (possibly partial) phone number is digits only
// and no longer than MaxPhoneDigits.
func ValidatePhone(phone string) (bool, string) {
	if !PhonePattern.MatchString(phone) {
		return false, "Phone must contain digits only"
	}
	if len(phone) > MaxPhoneDigits {
		return false, "Phone must be at most 10 digits"
	}
	return true, ""
}

// IsBlank reports whether a required value is missing.
// Only emptiness is checked; a value made of spaces counts as present.
func IsBlank(value string) bool {
	return value == ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// Used on session payloads before they are rendered into an image.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
