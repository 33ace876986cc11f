// Package export prints and shares a generated QR code through whatever the
// current platform offers: a browser share sheet, the clipboard or a file.
package export

import (
	"context"
	"errors"
)

// Fixed wording shown alongside an exported QR code.
const (
	FileName     = "qr-code.png"
	MIMEType     = "image/png"
	ShareTitle   = "Lost Item QR Code"
	ShareText    = "Here is the QR code to contact the owner."
	PrintTitle   = "Print QR Code"
	PrintCaption = "Scan this QR code to get the owner's details and contact them via WhatsApp or call."

	UnsupportedMessage = "Sharing not supported on this device."
)

var (
	ErrSharingUnsupported = errors.New(UnsupportedMessage)
	ErrNoImage            = errors.New("no QR image to export")
)

// Image is an encoded QR code ready to be written or attached.
type Image struct {
	Name string
	MIME string
	Data []byte
}

// NewImage wraps PNG bytes with the standard file name.
func NewImage(png []byte) Image {
	return Image{Name: FileName, MIME: MIMEType, Data: png}
}

// Content is the wording attached to shares and print sheets.
type Content struct {
	ShareTitle   string `yaml:"share_title"`
	ShareText    string `yaml:"share_text"`
	PrintTitle   string `yaml:"print_title"`
	PrintCaption string `yaml:"print_caption"`
}

// DefaultContent returns the standard share and print wording.
func DefaultContent() Content {
	return Content{
		ShareTitle:   ShareTitle,
		ShareText:    ShareText,
		PrintTitle:   PrintTitle,
		PrintCaption: PrintCaption,
	}
}

// WithDefaults fills empty fields from DefaultContent.
func (c Content) WithDefaults() Content {
	d := DefaultContent()
	if c.ShareTitle == "" {
		c.ShareTitle = d.ShareTitle
	}
	if c.ShareText == "" {
		c.ShareText = d.ShareText
	}
	if c.PrintTitle == "" {
		c.PrintTitle = d.PrintTitle
	}
	if c.PrintCaption == "" {
		c.PrintCaption = d.PrintCaption
	}
	return c
}

// Sheet is a print-ready page: the QR image and a caption under it.
type Sheet struct {
	Title   string
	Caption string
	Image   Image
}

// NewSheet builds the print sheet for a QR image.
func NewSheet(img Image, content Content) (Sheet, error) {
	if len(img.Data) == 0 {
		return Sheet{}, ErrNoImage
	}
	content = content.WithDefaults()
	return Sheet{Title: content.PrintTitle, Caption: content.PrintCaption, Image: img}, nil
}

// Printer sends a sheet to a print surface.
type Printer interface {
	Print(ctx context.Context, sheet Sheet) error
}

// Sharer hands a share to the platform's share flow.
type Sharer interface {
	Capabilities() Capabilities
	Share(ctx context.Context, s Share) error
}

// ShareQR plans a share from the sharer's capabilities and invokes it.
// The returned Share is the one attempted, even when the sharer fails.
func ShareQR(ctx context.Context, sharer Sharer, link string, png []byte, content Content) (Share, error) {
	s, err := PlanShare(sharer.Capabilities(), link, NewImage(png), content)
	if err != nil {
		return Share{}, err
	}
	if err := sharer.Share(ctx, s); err != nil {
		return s, err
	}
	return s, nil
}
