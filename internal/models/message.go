package models

import (
	"net/mail"
	"strings"
	"time"
)

// Resume is an uploaded CV file. The newest upload is the one offered for
// download.
type Resume struct {
	ID         int64     `json:"id"`
	URL        string    `json:"url"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type ResumeInput struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func (in ResumeInput) Validate() error {
	var c checker
	c.required("url", in.URL, 2_000)
	c.required("filename", in.Filename, 255)
	return c.err()
}

func (in ResumeInput) Record(id int64, now time.Time) Resume {
	return Resume{ID: id, URL: in.URL, Filename: in.Filename, UploadedAt: now}
}

type ResumePatch struct {
	URL      *string `json:"url"`
	Filename *string `json:"filename"`
}

func (p ResumePatch) Validate() error {
	var c checker
	c.present("url", p.URL, 2_000)
	c.present("filename", p.Filename, 255)
	return c.err()
}

func (p ResumePatch) Apply(r *Resume) {
	setIf(&r.URL, p.URL)
	setIf(&r.Filename, p.Filename)
}

// Message is a contact form submission. Messages are immutable once stored.
type Message struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type MessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (in MessageInput) Validate() error {
	var c checker
	c.required("name", in.Name, 200)
	c.required("email", in.Email, 320)
	if strings.TrimSpace(in.Email) != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			c.add("email", "must be a valid email address")
		}
	}
	c.required("message", in.Message, 5_000)
	return c.err()
}

func (in MessageInput) Record(id int64, now time.Time) Message {
	return Message{
		ID:        id,
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Message:   in.Message,
		CreatedAt: now,
	}
}

// MessagePatch exists to satisfy the store contract. Messages have no
// editable fields, so every patch is empty.
type MessagePatch struct{}

func (MessagePatch) Validate() error  { return nil }
func (MessagePatch) Apply(*Message) {}
