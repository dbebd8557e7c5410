package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventTypeInPerson = "in-person"
	EventTypeOnline   = "online"
)

type Event struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `gorm:"not null" json:"description"`
	Date             time.Time      `gorm:"not null;index" json:"date"`
	Location         string         `json:"location"`
	MeetingLink      string         `json:"meetingLink,omitempty"`
	EventType        string         `gorm:"not null;default:'in-person'" json:"eventType"`
	Price            float64        `gorm:"not null" json:"price"`
	Capacity         int            `gorm:"not null" json:"capacity"`
	AvailableTickets int            `gorm:"not null" json:"availableTickets"`
	CoverImage       string         `gorm:"not null" json:"coverImage"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
