package export

import (
	"context"
	"sync"
)

// RecordingSharer is a Sharer that keeps every share it receives.
// Err, when set, is returned from Share after recording.
type RecordingSharer struct {
	Caps Capabilities
	Err  error

	mu     sync.Mutex
	shares []Share
}

func (s *RecordingSharer) Capabilities() Capabilities {
	return s.Caps
}

func (s *RecordingSharer) Share(_ context.Context, sh Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shares = append(s.shares, sh)
	return s.Err
}

// Shares returns the recorded shares.
func (s *RecordingSharer) Shares() []Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Share(nil), s.shares...)
}

// RecordingPrinter is a Printer that keeps every sheet it receives.
type RecordingPrinter struct {
	Err error

	mu     sync.Mutex
	sheets []Sheet
}

func (p *RecordingPrinter) Print(_ context.Context, sheet Sheet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sheets = append(p.sheets, sheet)
	return p.Err
}

// Sheets returns the recorded sheets.
func (p *RecordingPrinter) Sheets() []Sheet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Sheet(nil), p.sheets...)
}
