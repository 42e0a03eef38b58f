package entities

import "time"

type BlogPost struct {
	Model
	Title       string     `gorm:"size:512;not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Excerpt     string     `gorm:"size:1000" json:"excerpt,omitempty"`
	Content     string     `gorm:"type:text" json:"content"` // markdown
	Author      string     `gorm:"size:255" json:"author,omitempty"`
	CoverImage  string     `gorm:"size:2048" json:"cover_image,omitempty"`
	Published   bool       `gorm:"index" json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

type MessageType string

const (
	MessageTypeWhatsApp MessageType = "whatsapp"
	MessageTypeEmail    MessageType = "email"
	MessageTypeSMS      MessageType = "sms"
)

// Valid reports whether t is one of the supported channels.
func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeWhatsApp, MessageTypeEmail, MessageTypeSMS:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSending   MessageStatus = "sending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
)

// Message is an outbound notification record. This application only writes
// pending rows; delivery is handled elsewhere.
type Message struct {
	Model
	RecipientName  string        `gorm:"size:255;not null" json:"recipient_name"`
	RecipientEmail string        `gorm:"size:255" json:"recipient_email,omitempty"`
	RecipientPhone string        `gorm:"size:32" json:"recipient_phone,omitempty"`
	Type           MessageType   `gorm:"index;size:20;not null" json:"type"`
	Subject        string        `gorm:"size:255" json:"subject,omitempty"`
	Content        string        `gorm:"type:text;not null" json:"content"`
	Status         MessageStatus `gorm:"index;size:20;default:'pending'" json:"status"`
	ScheduledFor   time.Time     `gorm:"index" json:"scheduled_for"`
	SentAt         *time.Time    `json:"sent_at,omitempty"`
	ErrorMessage   string        `gorm:"size:1000" json:"error_message,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

type MessageTemplate struct {
	Model
	Name    string      `gorm:"size:100;not null" json:"name"`
	Type    MessageType `gorm:"size:20" json:"type"`
	Subject string      `gorm:"size:255" json:"subject,omitempty"`
	Content string      `gorm:"type:text;not null" json:"content"` // may contain {{placeholders}}
	Active  bool        `json:"active"`
}

func (MessageTemplate) TableName() string {
	return "message_templates"
}
