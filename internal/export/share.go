package export

import "strconv"

// Method is how a QR code is shared.
type Method string

const (
	MethodFile Method = "file"
	MethodLink Method = "link"
)

// Outcomes reported back from a share flow.
const (
	OutcomeShared    = "shared"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// Capabilities describes what the platform share flow accepts.
type Capabilities struct {
	Files bool
	Text  bool
}

// ParseCapabilities reads capability flags as sent by a browser form ("true"/"1").
func ParseCapabilities(files, text string) Capabilities {
	f, _ := strconv.ParseBool(files)
	t, _ := strconv.ParseBool(text)
	return Capabilities{Files: f, Text: t}
}

// Share is one planned share.
// File is set for MethodFile; URL always carries the deep link.
type Share struct {
	Method Method
	Title  string
	Text   string
	URL    string
	File   *Image
}

// PlanShare picks the richest share the platform supports: the QR image as a
// file, then the raw link, and otherwise ErrSharingUnsupported.
func PlanShare(caps Capabilities, link string, img Image, content Content) (Share, error) {
	content = content.WithDefaults()

	switch {
	case caps.Files && len(img.Data) > 0:
		file := img
		return Share{
			Method: MethodFile,
			Title:  content.ShareTitle,
			Text:   content.ShareText,
			URL:    link,
			File:   &file,
		}, nil
	case caps.Text && link != "":
		return Share{
			Method: MethodLink,
			Title:  content.ShareTitle,
			Text:   content.ShareText,
			URL:    link,
		}, nil
	}
	return Share{}, ErrSharingUnsupported
}

// ValidOutcome reports whether outcome is one a share flow may report.
func ValidOutcome(outcome string) bool {
	switch outcome {
	case OutcomeShared, OutcomeCancelled, OutcomeFailed:
		return true
	}
	return false
}
