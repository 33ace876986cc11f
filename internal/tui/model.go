// Package tui is the terminal front end of the finder form.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"finderqr/internal/contact"
	"finderqr/internal/export"
	"finderqr/internal/qrcode"
	"finderqr/internal/validation"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#25D366")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Width(9).
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	captionStyle = lipgloss.NewStyle().
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Generate key.Binding
	Print    key.Binding
	Share    key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Generate: key.NewBinding(key.WithKeys("enter", "ctrl+g"), key.WithHelp("enter", "generate")),
	Print:    key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "print")),
	Share:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "share")),
	Quit:     key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
}

// Renderer draws QR codes both as PNG and as terminal text.
type Renderer interface {
	qrcode.Renderer
	Terminal(payload string) (string, error)
}

// Options configures a Model.
type Options struct {
	Defaults contact.Record
	Renderer Renderer
	Printer  export.Printer
	Sharer   export.Sharer
	Content  export.Content
	Size     int
	Logger   *zap.Logger
}

type printedMsg struct {
	path string
	err  error
}

type sharedMsg struct {
	share export.Share
	err   error
}

// Model is the Bubble Tea model for the finder form.
type Model struct {
	form     contact.Form
	inputs   []textinput.Model
	focus    int
	qr       string
	status   string
	renderer Renderer
	printer  export.Printer
	sharer   export.Sharer
	content  export.Content
	size     int
	logger   *zap.Logger
}

// New builds the form model with the first field focused.
func New(opts Options) Model {
	if opts.Renderer == nil {
		opts.Renderer = qrcode.NewEncoder()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Defaults == (contact.Record{}) {
		opts.Defaults = contact.NewRecord()
	}

	m := Model{
		form:     contact.NewForm(opts.Defaults),
		renderer: opts.Renderer,
		printer:  opts.Printer,
		sharer:   opts.Sharer,
		content:  opts.Content.WithDefaults(),
		size:     qrcode.ClampSize(opts.Size),
		logger:   opts.Logger,
	}

	for _, f := range contact.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Label()
		in.SetValue(opts.Defaults.Get(f))
		switch f {
		case contact.FieldPhone:
			in.Placeholder = "Phone (10 digits)"
			in.CharLimit = validation.MaxPhoneDigits
		case contact.FieldMessage:
			in.Placeholder = "Message to Finder"
		}
		m.inputs = append(m.inputs, in)
	}
	m.inputs[0].Focus()
	return m
}

// Form returns the current form snapshot.
func (m Model) Form() contact.Form {
	return m.form
}

// Status returns the last status line shown under the form.
func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			return m.moveFocus(1), nil
		case key.Matches(msg, keys.Prev):
			return m.moveFocus(-1), nil
		case key.Matches(msg, keys.Generate):
			return m.generate(), nil
		case key.Matches(msg, keys.Print):
			return m.startPrint()
		case key.Matches(msg, keys.Share):
			return m.startShare()
		}
		return m.updateInput(msg)

	case printedMsg:
		if msg.err != nil {
			m.logger.Error("print failed", zap.Error(msg.err))
			m.status = "Print failed: " + msg.err.Error()
			return m, nil
		}
		m.status = "Sent to printer"
		if msg.path != "" {
			m.status = "Saved " + msg.path + " for printing"
		}
		return m, nil

	case sharedMsg:
		return m.finishShare(msg), nil
	}

	return m.updateInput(msg)
}

// updateInput forwards msg to the focused input and keeps the resulting value
// only if the field accepts it. Pastes arrive here as non-key messages.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	field := contact.Fields[m.focus]
	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	after := m.inputs[m.focus].Value()
	if after == before {
		return m, cmd
	}

	next, err := m.form.Type(field, after)
	if err != nil {
		m.logger.Debug("keystroke rejected", zap.String("field", string(field)), zap.Error(err))
		m.inputs[m.focus].SetValue(before)
		return m, cmd
	}
	m.form = next
	return m, cmd
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

// generate commits the new form only once its QR code has rendered, so the
// inputs and the form never disagree.
func (m Model) generate() Model {
	form, err := m.form.Generate()
	if err != nil {
		m.form = form
		m.status = ""
		return m
	}

	qr, err := m.renderer.Terminal(form.Payload)
	if err != nil {
		m.logger.Error("render qr", zap.Error(err))
		m.status = "Could not render QR code"
		return m
	}
	m.form = form
	m.qr = qr
	m.status = "QR code generated"
	m.logger.Info("qr link generated", zap.Int("length", len(form.Payload)))

	for i, f := range contact.Fields {
		m.inputs[i].SetValue(form.Record.Get(f))
	}
	return m.moveFocus(-m.focus)
}

func (m Model) startPrint() (tea.Model, tea.Cmd) {
	if !m.form.HasPayload() || m.printer == nil {
		return m, nil
	}
	payload, size, content := m.form.Payload, m.size, m.content
	renderer, printer := m.renderer, m.printer

	return m, func() tea.Msg {
		png, err := renderer.PNG(payload, size)
		if err != nil {
			return printedMsg{err: err}
		}
		sheet, err := export.NewSheet(export.NewImage(png), content)
		if err != nil {
			return printedMsg{err: err}
		}
		if err := printer.Print(context.Background(), sheet); err != nil {
			return printedMsg{err: err}
		}
		var path string
		if fp, ok := printer.(interface{ LastPath() string }); ok {
			path = fp.LastPath()
		}
		return printedMsg{path: path}
	}
}

func (m Model) startShare() (tea.Model, tea.Cmd) {
	if !m.form.HasPayload() {
		return m, nil
	}
	if m.sharer == nil {
		m.status = export.UnsupportedMessage
		return m, nil
	}
	payload, size, content := m.form.Payload, m.size, m.content
	renderer, sharer := m.renderer, m.sharer

	return m, func() tea.Msg {
		png, err := renderer.PNG(payload, size)
		if err != nil {
			return sharedMsg{err: err}
		}
		s, err := export.ShareQR(context.Background(), sharer, payload, png, content)
		return sharedMsg{share: s, err: err}
	}
}

func (m Model) finishShare(msg sharedMsg) Model {
	switch {
	case errors.Is(msg.err, export.ErrSharingUnsupported):
		m.status = export.UnsupportedMessage
	case msg.err != nil:
		m.logger.Warn("error sharing", zap.String("method", string(msg.share.Method)), zap.Error(msg.err))
		m.status = ""
	case msg.share.Method == export.MethodLink:
		m.status = "Link copied to clipboard"
	default:
		m.status = "QR code shared"
	}
	return m
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("QR Code Generator"))
	b.WriteString("\n\n")

	if m.form.Error != "" {
		b.WriteString(errorStyle.Render(m.form.Error))
		b.WriteString("\n\n")
	}

	for i, f := range contact.Fields {
		b.WriteString(labelStyle.Render(f.Label()))
		b.WriteString(" ")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	if m.form.HasPayload() && m.qr != "" {
		b.WriteString("\n")
		b.WriteString(m.qr)
		b.WriteString(captionStyle.Render(m.content.PrintCaption))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.form.Payload))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next • enter: generate • ctrl+p: print • ctrl+s: share • esc: quit"))
	b.WriteString("\n")
	return b.String()
}
