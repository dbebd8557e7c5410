package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Musallamjaw/CTRL/internal/models"
)

// Business outcomes. Handlers translate these into the user-facing messages;
// they are expected states, not system failures.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrNotEnoughTickets = errors.New("not enough tickets available")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrTicketUsed       = errors.New("ticket already used")
)

// MaxTicketsPerRequest caps a single issuance. Multi-ticket requests are a
// supported capability, not just a degenerate count of 1.
const MaxTicketsPerRequest = 10

const userTicketsPageSize = 6

// QRGenerator produces a scannable image for a ticket and returns a stable
// reference to it. Remove cleans up images written for a failed issuance.
type QRGenerator interface {
	Generate(code, eventID string) (string, error)
	Remove(refs ...string)
}

// MailSender delivers issued tickets to the purchaser. Delivery failure must
// never invalidate persisted tickets.
type MailSender interface {
	SendTickets(to string, tickets []models.Ticket) error
}

type Service struct {
	db   *gorm.DB
	qr   QRGenerator
	mail MailSender
	log  *slog.Logger
}

func NewService(db *gorm.DB, qr QRGenerator, mail MailSender, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, qr: qr, mail: mail, log: log}
}

type Purchaser struct {
	UserID string
	Name   string
	Email  string
}

type IssueRequest struct {
	EventID   uuid.UUID
	Count     int
	Purchaser Purchaser
}

type IssueResult struct {
	Tickets []models.Ticket
	// MailErr is set when the confirmation email could not be sent. The
	// tickets are persisted and valid regardless.
	MailErr error
}

// Issue atomically reserves capacity, creates the ticket records with their
// QR images, and emails them to the purchaser.
//
// The capacity decrement is a single conditional UPDATE guarded by
// available_tickets >= count, so two concurrent requests for the last ticket
// cannot both succeed. Ticket rows and the decrement commit together; a QR
// generation failure rolls the whole attempt back and removes any images
// already written. Email is sent only after commit and its failure is
// reported via IssueResult.MailErr, never by undoing the issuance.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	if req.Count < 1 || req.Count > MaxTicketsPerRequest {
		return nil, fmt.Errorf("ticket count must be between 1 and %d", MaxTicketsPerRequest)
	}

	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, "id = ?", req.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	var (
		tickets []models.Ticket
		written []string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Event{}).
			Where("id = ? AND available_tickets >= ?", req.EventID, req.Count).
			UpdateColumn("available_tickets", gorm.Expr("available_tickets - ?", req.Count))
		if res.Error != nil {
			return fmt.Errorf("failed to reserve tickets: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotEnoughTickets
		}

		for i := 0; i < req.Count; i++ {
			code := uuid.New().String()

			ref, err := s.qr.Generate(code, event.ID.String())
			if err != nil {
				return fmt.Errorf("failed to generate QR code: %w", err)
			}
			written = append(written, ref)

			ticket := models.Ticket{
				QRID: code,
				EventData: models.EventSnapshot{
					EventID:  event.ID,
					Title:    event.Title,
					Location: event.Location,
					Date:     event.Date,
				},
				UserData: models.UserSnapshot{
					UserID: req.Purchaser.UserID,
					Name:   req.Purchaser.Name,
					Email:  req.Purchaser.Email,
				},
				QRCode: ref,
				Status: models.TicketUnused,
			}
			if err := tx.Create(&ticket).Error; err != nil {
				return fmt.Errorf("failed to create ticket: %w", err)
			}
			tickets = append(tickets, ticket)
		}
		return nil
	})
	if err != nil {
		s.qr.Remove(written...)
		return nil, err
	}

	result := &IssueResult{Tickets: tickets}
	if err := s.mail.SendTickets(req.Purchaser.Email, tickets); err != nil {
		s.log.Warn("ticket email not delivered",
			"event_id", event.ID,
			"recipient", req.Purchaser.Email,
			"error", err,
		)
		result.MailErr = err
	}
	return result, nil
}

// Scan consumes a ticket exactly once. The status flip is a conditional
// UPDATE on status = 'unused'; of two concurrent scans of the same code,
// exactly one sees rows affected.
func (s *Service) Scan(ctx context.Context, qrID string) (*models.Ticket, error) {
	res := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("qr_id = ? AND status = ?", qrID, models.TicketUnused).
		Update("status", models.TicketUsed)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", res.Error)
	}

	var ticket models.Ticket
	if err := s.db.WithContext(ctx).First(&ticket, "qr_id = ?", qrID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}

	if res.RowsAffected == 0 {
		return &ticket, ErrTicketUsed
	}
	return &ticket, nil
}

// Count tallies tickets by status ("used", "unused", anything else means
// all), optionally narrowed to one purchaser.
func (s *Service) Count(ctx context.Context, filter, userID string) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Ticket{})
	if filter == models.TicketUsed || filter == models.TicketUnused {
		query = query.Where("status = ?", filter)
	}
	if userID != "" {
		query = query.Where("user_user_id = ?", userID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

// ListUserTickets returns one page of a purchaser's tickets, newest first.
func (s *Service) ListUserTickets(ctx context.Context, userID string, page int, filter string) ([]models.Ticket, error) {
	if page < 1 {
		page = 1
	}

	query := s.db.WithContext(ctx).Where("user_user_id = ?", userID)
	if filter == models.TicketUsed || filter == models.TicketUnused {
		query = query.Where("status = ?", filter)
	}

	var tickets []models.Ticket
	err := query.Order("created_at DESC").
		Offset((page - 1) * userTicketsPageSize).
		Limit(userTicketsPageSize).
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// HasTicketForEvent reports whether the purchaser already holds a ticket for
// the event.
func (s *Service) HasTicketForEvent(ctx context.Context, userID string, eventID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("user_user_id = ? AND event_event_id = ?", userID, eventID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check ticket: %w", err)
	}
	return count > 0, nil
}
