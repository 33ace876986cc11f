package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"finderqr/internal/contact"
)

// Session keys holding the form snapshot.
const (
	sessionSavedKey   = "form.saved"
	sessionPayloadKey = "form.payload"
	sessionErrorKey   = "form.error"
	sessionFieldKey   = "form.field."
)

// loadForm restores the session's form, or starts a new one from defaults.
func loadForm(c fiber.Ctx, defaults contact.Record) (contact.Form, error) {
	sess := session.FromContext(c)
	if sess == nil {
		return contact.Form{}, fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	if sess.Get(sessionSavedKey) == nil {
		return contact.NewForm(defaults), nil
	}

	record := contact.Record{
		Name:    sessionString(sess, sessionFieldKey+string(contact.FieldName)),
		Email:   sessionString(sess, sessionFieldKey+string(contact.FieldEmail)),
		Phone:   sessionString(sess, sessionFieldKey+string(contact.FieldPhone)),
		Address: sessionString(sess, sessionFieldKey+string(contact.FieldAddress)),
		Item:    sessionString(sess, sessionFieldKey+string(contact.FieldItem)),
		Message: sessionString(sess, sessionFieldKey+string(contact.FieldMessage)),
	}

	return contact.Restore(
		defaults,
		record,
		sessionString(sess, sessionPayloadKey),
		sessionString(sess, sessionErrorKey),
	), nil
}

// saveForm replaces the session's form snapshot.
func saveForm(c fiber.Ctx, form contact.Form) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	for _, f := range contact.Fields {
		sess.Set(sessionFieldKey+string(f), form.Record.Get(f))
	}
	sess.Set(sessionPayloadKey, form.Payload)
	sess.Set(sessionErrorKey, form.Error)
	sess.Set(sessionSavedKey, "1")
	return nil
}

// saveField stores a single field, leaving the others as the session holds
// them. The first write of a session stores the whole snapshot so defaults
// are kept.
func saveField(c fiber.Ctx, form contact.Form, field contact.Field) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	if sess.Get(sessionSavedKey) == nil {
		return saveForm(c, form)
	}
	sess.Set(sessionFieldKey+string(field), form.Record.Get(field))
	return nil
}

func sessionString(sess *session.Middleware, key string) string {
	v, _ := sess.Get(key).(string)
	return v
}
