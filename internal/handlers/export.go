package handlers

import (
	"encoding/base64"
	"errors"
	"html/template"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"finderqr/internal/config"
	"finderqr/internal/export"
	"finderqr/internal/metrics"
	"finderqr/internal/qrcode"
	"finderqr/internal/validation"
)

// shareResponse is the descriptor the browser passes to navigator.share.
type shareResponse struct {
	Method   export.Method `json:"method"`
	Title    string        `json:"title"`
	Text     string        `json:"text"`
	URL      string        `json:"url"`
	FileURL  string        `json:"file_url,omitempty"`
	FileName string        `json:"file_name,omitempty"`
	FileType string        `json:"file_type,omitempty"`
}

// ExportHandler renders, prints and shares the session's QR code.
type ExportHandler struct {
	cfg      *config.Config
	renderer qrcode.Renderer
}

// NewExportHandler creates a new export handler.
func NewExportHandler(cfg *config.Config, renderer qrcode.Renderer) *ExportHandler {
	return &ExportHandler{cfg: cfg, renderer: renderer}
}

// Image serves the QR code as a PNG. Accepts ?size= in pixels and
// ?download=1 to send it as an attachment.
func (h *ExportHandler) Image(c fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	size := h.cfg.Form.ImageSize()
	if s, err := strconv.Atoi(c.Query("size")); err == nil {
		size = qrcode.ClampSize(s)
	}

	png, err := h.renderer.PNG(payload, size)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, export.MIMEType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	if c.Query("download") != "" {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.FileName+`"`)
	}
	return c.Send(png)
}

// Print renders a standalone page holding the QR code and its caption that
// opens the browser print dialog on load.
func (h *ExportHandler) Print(c fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return err
	}

	png, err := h.renderer.PNG(payload, h.cfg.Form.ImageSize())
	if err != nil {
		return err
	}

	sheet, err := export.NewSheet(export.NewImage(png), h.cfg.Form.Content())
	if err != nil {
		return err
	}

	metrics.RecordPrint()
	return c.Render("print", fiber.Map{
		"Title":    sheet.Title,
		"Caption":  sheet.Caption,
		"ImageURL": template.URL("data:" + sheet.Image.MIME + ";base64," + base64.StdEncoding.EncodeToString(sheet.Image.Data)),
		"Size":     h.cfg.Form.ImageSize(),
	}, "")
}

// Share answers a browser's share request. The form carries the browser's
// capabilities ("files" and "text"); the response says what to share.
func (h *ExportHandler) Share(c fiber.Ctx) error {
	payload, err := h.payload(c)
	if err != nil {
		return jsonError(c, fiber.StatusNotFound, "no QR code has been generated")
	}

	png, err := h.renderer.PNG(payload, h.cfg.Form.ImageSize())
	if err != nil {
		slog.Error("failed to render qr for share", "error", err)
		return jsonError(c, fiber.StatusInternalServerError, "failed to render QR code")
	}

	caps := export.ParseCapabilities(c.FormValue("files"), c.FormValue("text"))
	share, err := export.PlanShare(caps, payload, export.NewImage(png), h.cfg.Form.Content())
	if err != nil {
		if errors.Is(err, export.ErrSharingUnsupported) {
			metrics.RecordShare("none", "unsupported")
			return jsonError(c, fiber.StatusUnprocessableEntity, export.UnsupportedMessage)
		}
		return jsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := shareResponse{
		Method: share.Method,
		Title:  share.Title,
		Text:   share.Text,
		URL:    share.URL,
	}
	if share.File != nil {
		resp.FileURL = "/qr.png?download=1&v=" + uuid.NewString()
		resp.FileName = share.File.Name
		resp.FileType = share.File.MIME
	}
	return jsonSuccess(c, resp)
}

// ShareResult records how the browser's share flow ended. Failures and
// cancellations are logged only.
func (h *ExportHandler) ShareResult(c fiber.Ctx) error {
	method := c.FormValue("method")
	outcome := c.FormValue("outcome")
	if !export.ValidOutcome(outcome) {
		return jsonError(c, fiber.StatusBadRequest, "invalid outcome")
	}
	if method != string(export.MethodFile) && method != string(export.MethodLink) {
		method = "unknown"
	}

	metrics.RecordShare(method, outcome)
	if outcome == export.OutcomeShared {
		slog.Info("qr code shared", "method", method)
	} else {
		slog.Warn("error sharing qr code", "method", method, "outcome", outcome, "error", c.FormValue("error"))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// payload returns the session's QR payload or a 404 if none was generated.
func (h *ExportHandler) payload(c fiber.Ctx) (string, error) {
	form, err := loadForm(c, h.cfg.Form.DefaultRecord())
	if err != nil {
		return "", err
	}
	if !form.HasPayload() {
		return "", fiber.NewError(fiber.StatusNotFound, "no QR code has been generated")
	}
	if valid, msg := validation.ValidateURL(form.Payload); !valid {
		slog.Warn("discarding invalid session payload", "reason", msg)
		return "", fiber.NewError(fiber.StatusNotFound, "no QR code has been generated")
	}
	return form.Payload, nil
}
