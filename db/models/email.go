package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailLog records every outbound notification (import error reports).
type EmailLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	Recipient      string    `gorm:"not null" json:"recipient"`
	Subject        string    `json:"subject"`
	Message        string    `json:"message"`
	SentAt         time.Time `json:"sent_at"`
	Active         *bool     `json:"active"`
	AttachmentPath string    `json:"attachment_path"`
}

func (EmailLog) TableName() string { return "email_logs" }
