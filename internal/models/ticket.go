package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TicketUnused = "unused"
	TicketUsed   = "used"
)

// EventSnapshot is captured at issuance time. Later edits or deletion of the
// event never alter an issued ticket.
type EventSnapshot struct {
	EventID  uuid.UUID `gorm:"type:uuid;not null;index" json:"eventId"`
	Title    string    `gorm:"not null" json:"title"`
	Location string    `gorm:"not null" json:"location"`
	Date     time.Time `gorm:"not null" json:"date"`
}

type UserSnapshot struct {
	UserID string `gorm:"not null;index" json:"userId"`
	Name   string `gorm:"not null" json:"name"`
	Email  string `gorm:"not null" json:"email"`
}

type Ticket struct {
	ID        uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	QRID      string        `gorm:"not null;uniqueIndex" json:"qrId"`
	EventData EventSnapshot `gorm:"embedded;embeddedPrefix:event_" json:"eventData"`
	UserData  UserSnapshot  `gorm:"embedded;embeddedPrefix:user_" json:"userData"`
	QRCode    string        `gorm:"not null" json:"qrCode"`
	Status    string        `gorm:"not null;default:'unused';index" json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
