package domain

import "time"

// Role of a transcript entry. System entries carry status notices and are
// never sent to the model.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Message is one transcript entry.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentContext is the currently active source material.
type DocumentContext struct {
	SourceName string `json:"source_name"`
	Text       string `json:"-"`
}

// Loaded reports whether turns may be accepted.
func (d DocumentContext) Loaded() bool {
	return d.Text != ""
}

// UploadedFile is a document handed to the extraction collaborator.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}
