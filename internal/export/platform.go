package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
)

// ClipboardSharer shares the deep link by copying it to the system clipboard.
// It cannot share files.
type ClipboardSharer struct {
	write func(string) error
}

// NewClipboardSharer returns a sharer backed by the system clipboard.
func NewClipboardSharer() *ClipboardSharer {
	return &ClipboardSharer{write: clipboard.WriteAll}
}

// Capabilities reports text sharing when a clipboard utility is available.
func (s *ClipboardSharer) Capabilities() Capabilities {
	return Capabilities{Text: !clipboard.Unsupported}
}

// Share copies the link to the clipboard.
func (s *ClipboardSharer) Share(ctx context.Context, sh Share) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if sh.Method != MethodLink {
		return ErrSharingUnsupported
	}
	if err := s.write(sh.URL); err != nil {
		return fmt.Errorf("copy link to clipboard: %w", err)
	}
	return nil
}

// FilePrinter "prints" by writing the QR image to a directory, ready for the
// system print dialog or an image viewer.
type FilePrinter struct {
	Dir string

	mu   sync.Mutex
	last string
}

// NewFilePrinter returns a printer writing into dir.
func NewFilePrinter(dir string) *FilePrinter {
	return &FilePrinter{Dir: dir}
}

// Print writes the sheet's image to Dir.
func (p *FilePrinter) Print(ctx context.Context, sheet Sheet) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(sheet.Image.Data) == 0 {
		return ErrNoImage
	}
	name := sheet.Image.Name
	if name == "" {
		name = FileName
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create print dir: %w", err)
	}
	path := filepath.Join(p.Dir, name)
	if err := os.WriteFile(path, sheet.Image.Data, 0o644); err != nil {
		return fmt.Errorf("write print file: %w", err)
	}

	p.mu.Lock()
	p.last = path
	p.mu.Unlock()
	return nil
}

// LastPath returns the file written by the most recent successful Print.
func (p *FilePrinter) LastPath() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}
