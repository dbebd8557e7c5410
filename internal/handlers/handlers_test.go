package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Musallamjaw/CTRL/internal/middleware"
	"github.com/Musallamjaw/CTRL/internal/models"
	"github.com/Musallamjaw/CTRL/internal/ticketing"
)

type stubQR struct {
	mu      sync.Mutex
	removed []string
}

func (s *stubQR) Generate(code, eventID string) (string, error) {
	return "ticket_" + code + ".png", nil
}

func (s *stubQR) Remove(refs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, refs...)
}

type stubMailer struct {
	mu   sync.Mutex
	sent int
}

func (s *stubMailer) SendTickets(to string, tickets []models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent++
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Event{}, &models.Ticket{}))

	service := ticketing.NewService(db, &stubQR{}, &stubMailer{}, nil)

	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.TicketingMiddleware(service))

	events := r.Group("/v1/events")
	{
		events.GET("", ListEvents)
		events.GET("/closest", GetClosestEvent)
		events.GET("/count/:filter", CountEvents)
		events.GET("/:id", GetEvent)
		events.POST("", CreateEvent)
		events.PUT("/:id", UpdateEvent)
		events.DELETE("/:id", DeleteEvent)
	}
	tickets := r.Group("/v1/tickets")
	{
		tickets.POST("", IssueTickets)
		tickets.POST("/scan", ScanTicket)
		tickets.GET("/count/:filter", CountTickets)
		tickets.GET("/user/:userId", ListUserTickets)
		tickets.GET("/purchased/:userId/:eventId", CheckUserTicketForEvent)
	}
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createTestEvent(t *testing.T, db *gorm.DB, capacity int) models.Event {
	t.Helper()
	event := models.Event{
		Title:            "Game Night",
		Description:      "Board games at the clubhouse",
		Date:             time.Now().Add(72 * time.Hour),
		Location:         "Clubhouse",
		EventType:        models.EventTypeInPerson,
		Price:            5,
		Capacity:         capacity,
		AvailableTickets: capacity,
		CoverImage:       "default-event.jpg",
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func TestCreateEventValidation(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v1/events", gin.H{
		"title":       "Online Workshop",
		"description": "Intro to soldering",
		"date":        time.Now().Add(24 * time.Hour),
		"eventType":   "online",
		"price":       0,
		"capacity":    30,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Meeting link is required")

	w = doJSON(t, r, http.MethodPost, "/v1/events", gin.H{
		"title":       "Online Workshop",
		"description": "Intro to soldering",
		"date":        time.Now().Add(24 * time.Hour),
		"eventType":   "online",
		"meetingLink": "https://meet.example.com/workshop",
		"price":       0,
		"capacity":    30,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Event models.Event `json:"event"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 30, resp.Event.AvailableTickets)
	assert.Equal(t, "Online Event", resp.Event.Location)
}

func TestGetEventNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodGet, "/v1/events/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventCountFilters(t *testing.T) {
	r, db := setupRouter(t)

	createTestEvent(t, db, 10)
	closed := createTestEvent(t, db, 10)
	require.NoError(t, db.Model(&closed).Update("available_tickets", 0).Error)

	w := doJSON(t, r, http.MethodGet, "/v1/events/count/open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/v1/events/count/closed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":1}`, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/v1/events/count/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())
}

func TestIssueTicketsFlow(t *testing.T) {
	r, db := setupRouter(t)
	event := createTestEvent(t, db, 2)

	body := gin.H{
		"eventId":         event.ID,
		"numberOfTickets": 1,
		"userData": gin.H{
			"userId": "member-1",
			"name":   "Alice",
			"email":  "alice@club.test",
		},
	}

	w := doJSON(t, r, http.MethodPost, "/v1/tickets", body)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Tickets issued successfully.")

	var got models.Event
	require.NoError(t, db.First(&got, "id = ?", event.ID).Error)
	assert.Equal(t, 1, got.AvailableTickets)

	// Drain the remaining ticket, then the next request must get the
	// business outcome, not an error status.
	w = doJSON(t, r, http.MethodPost, "/v1/tickets", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/v1/tickets", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Not enough tickets available")
}

func TestIssueTicketsEventNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/v1/tickets", gin.H{
		"eventId":         uuid.New(),
		"numberOfTickets": 1,
		"userData": gin.H{
			"userId": "member-1",
			"name":   "Alice",
			"email":  "alice@club.test",
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScanTicketMessages(t *testing.T) {
	r, db := setupRouter(t)
	event := createTestEvent(t, db, 1)

	w := doJSON(t, r, http.MethodPost, "/v1/tickets", gin.H{
		"eventId":         event.ID,
		"numberOfTickets": 1,
		"userData": gin.H{
			"userId": "member-1",
			"name":   "Alice",
			"email":  "alice@club.test",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var ticket models.Ticket
	require.NoError(t, db.First(&ticket).Error)

	w = doJSON(t, r, http.MethodPost, "/v1/tickets/scan", gin.H{"qrId": ticket.QRID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ticket used successfully")

	w = doJSON(t, r, http.MethodPost, "/v1/tickets/scan", gin.H{"qrId": ticket.QRID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ticket already used")

	w = doJSON(t, r, http.MethodPost, "/v1/tickets/scan", gin.H{"qrId": "bogus-code"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ticket not found")
}

func TestPurchasedCheck(t *testing.T) {
	r, db := setupRouter(t)
	event := createTestEvent(t, db, 3)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/tickets/purchased/member-1/%s", event.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isPurchased":false}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/v1/tickets", gin.H{
		"eventId":         event.ID,
		"numberOfTickets": 1,
		"userData": gin.H{
			"userId": "member-1",
			"name":   "Alice",
			"email":  "alice@club.test",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/v1/tickets/purchased/member-1/%s", event.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"isPurchased":true}`, w.Body.String())
}
