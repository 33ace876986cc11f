package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"finderqr/internal/config"
	"finderqr/internal/contact"
	"finderqr/internal/export"
	"finderqr/internal/metrics"
	"finderqr/internal/validation"
)

// fieldView describes one form input for templates.
type fieldView struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Value       string
	MaxLength   int
	Required    bool
}

func newFieldView(f contact.Field, value string) fieldView {
	v := fieldView{
		Name:        string(f),
		Label:       f.Label(),
		Type:        "text",
		Placeholder: f.Label(),
		Value:       value,
		Required:    f != contact.FieldMessage,
	}
	switch f {
	case contact.FieldEmail:
		v.Type = "email"
	case contact.FieldPhone:
		v.Type = "tel"
		v.Placeholder = "Phone (10 digits)"
		v.MaxLength = validation.MaxPhoneDigits
	case contact.FieldMessage:
		v.Placeholder = "Message to Finder"
	}
	return v
}

// FormHandler serves the finder form and turns it into a QR payload.
type FormHandler struct {
	cfg *config.Config
}

// NewFormHandler creates a new form handler.
func NewFormHandler(cfg *config.Config) *FormHandler {
	return &FormHandler{cfg: cfg}
}

// Index renders the form page, including the QR code once one was generated.
func (h *FormHandler) Index(c fiber.Ctx) error {
	form, err := loadForm(c, h.cfg.Form.DefaultRecord())
	if err != nil {
		return err
	}
	return c.Render("index", MergeBranding(h.formData(form), h.cfg))
}

// Field applies one keystroke to a field. Accepted values are stored and
// answered with 204 so HTMX leaves the input alone; rejected values are
// answered with the input re-rendered at its previous value.
func (h *FormHandler) Field(c fiber.Ctx) error {
	field, err := contact.ParseField(c.Params("field"))
	if err != nil {
		if isHTMX(c) {
			return htmxError(c, "Unknown field")
		}
		return fiber.NewError(fiber.StatusNotFound, "unknown field")
	}

	form, err := loadForm(c, h.cfg.Form.DefaultRecord())
	if err != nil {
		return err
	}

	next, err := form.Type(field, c.FormValue(string(field)))
	if err != nil {
		metrics.RecordRejectedKeystroke(string(field))
		slog.Debug("keystroke rejected", "field", field, "error", err)
		return c.Render("partials/field", newFieldView(field, form.Record.Get(field)), "")
	}

	if err := saveField(c, next, field); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Generate validates the form and builds the WhatsApp link.
// Field values posted with the request are applied first, so the form also
// works without per-keystroke updates.
func (h *FormHandler) Generate(c fiber.Ctx) error {
	form, err := loadForm(c, h.cfg.Form.DefaultRecord())
	if err != nil {
		return err
	}

	args := c.Request().PostArgs()
	for _, f := range contact.Fields {
		if !args.Has(string(f)) {
			continue
		}
		next, err := form.Type(f, c.FormValue(string(f)))
		if err != nil {
			metrics.RecordRejectedKeystroke(string(f))
			continue
		}
		form = next
	}

	form, genErr := form.Generate()
	if err := saveForm(c, form); err != nil {
		return err
	}

	switch {
	case errors.Is(genErr, contact.ErrMissingFields):
		metrics.RecordGeneration(metrics.OutcomeMissingFields)
	case genErr != nil:
		metrics.RecordGeneration(metrics.OutcomeError)
		return genErr
	default:
		metrics.RecordGeneration(metrics.OutcomeGenerated)
		slog.Info("qr link generated", "length", len(form.Payload))
	}

	if wantsJSON(c) {
		if genErr != nil {
			return jsonError(c, fiber.StatusUnprocessableEntity, form.Error)
		}
		return jsonSuccess(c, fiber.Map{"payload": form.Payload})
	}

	if isHTMX(c) {
		return c.Render("partials/app", MergeBranding(h.formData(form), h.cfg), "")
	}

	return c.Redirect().Status(fiber.StatusSeeOther).To("/")
}

func (h *FormHandler) formData(form contact.Form) fiber.Map {
	fields := make([]fieldView, 0, len(contact.Fields))
	for _, f := range contact.Fields {
		fields = append(fields, newFieldView(f, form.Record.Get(f)))
	}
	return fiber.Map{
		"Form":        form,
		"Fields":      fields,
		"QRSize":      h.cfg.Form.ImageSize(),
		"Version":     payloadVersion(form.Payload),
		"Caption":     h.cfg.Form.Content().PrintCaption,
		"Unsupported": export.UnsupportedMessage,
	}
}

// payloadVersion is a short digest used to bust cached QR images.
func payloadVersion(payload string) string {
	if payload == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:6])
}
