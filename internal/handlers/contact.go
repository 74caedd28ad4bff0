package handlers

import (
	"net/http"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/notify"
	"portfolio/internal/store"
)

// Contact accepts public contact form submissions.
type Contact struct {
	messages store.Store[models.Message, models.MessageInput, models.MessagePatch]
	notifier notify.Notifier
	timeout  time.Duration
	// sent, when set, receives the completion channel of each delivery.
	sent func(<-chan struct{})
}

// NewContact creates the contact handler. A nil notifier disables
// notifications.
func NewContact(messages store.Store[models.Message, models.MessageInput, models.MessagePatch], n notify.Notifier, timeout time.Duration) *Contact {
	if n == nil {
		n = notify.Noop{}
	}
	return &Contact{messages: messages, notifier: n, timeout: timeout}
}

// Submit stores the message and fires a best-effort notification. The
// response does not wait for delivery.
func (c *Contact) Submit(w http.ResponseWriter, r *http.Request) {
	var in models.MessageInput
	if err := decodeJSON(w, r, &in, ""); err != nil {
		writeFailure(w, r, "decode contact", err)
		return
	}
	if err := in.Validate(); err != nil {
		writeFailure(w, r, "validate contact", err)
		return
	}

	msg, err := c.messages.Create(r.Context(), in)
	if err != nil {
		writeFailure(w, r, "store contact", err)
		return
	}

	done := notify.Go(c.notifier, *msg, c.timeout)
	if c.sent != nil {
		c.sent(done)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "id": msg.ID})
}
