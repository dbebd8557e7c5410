package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Musallamjaw/CTRL/internal/helpers"
	"github.com/Musallamjaw/CTRL/internal/models"
)

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meetingLink"`
	EventType   string    `json:"eventType" binding:"required,oneof=in-person online"`
	Price       float64   `json:"price" binding:"gte=0"`
	Capacity    int       `json:"capacity" binding:"required,gt=0"`
	CoverImage  string    `json:"coverImage"`
}

func validateEventRequest(req *EventRequest) string {
	if req.EventType == models.EventTypeInPerson && req.Location == "" {
		return "Location is required for in-person events"
	}
	if req.EventType == models.EventTypeOnline {
		if req.MeetingLink == "" {
			return "Meeting link is required for online events"
		}
		if _, err := url.ParseRequestURI(req.MeetingLink); err != nil {
			return "Meeting link must be a valid URL"
		}
	}
	return ""
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if msg := validateEventRequest(&req); msg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	location := req.Location
	meetingLink := ""
	if req.EventType == models.EventTypeOnline {
		location = "Online Event"
		meetingLink = req.MeetingLink
	}

	coverImage := req.CoverImage
	if coverImage == "" {
		coverImage = "default-event.jpg"
	}

	event := models.Event{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Location:         location,
		MeetingLink:      meetingLink,
		EventType:        req.EventType,
		Price:            req.Price,
		Capacity:         req.Capacity,
		AvailableTickets: req.Capacity,
		CoverImage:       coverImage,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create event.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"event":   event,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func eventFilterQuery(db *gorm.DB, filter string) *gorm.DB {
	query := db.Model(&models.Event{})
	switch filter {
	case "open":
		query = query.Where("available_tickets > 0")
	case "closed":
		query = query.Where("available_tickets = 0")
	}
	return query
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := helpers.ParsePage(c.DefaultQuery("page", "1"))
	limit, err := helpers.StringToInt(c.DefaultQuery("limit", "4"))
	if err != nil || limit < 1 {
		limit = 4
	}
	filter := c.DefaultQuery("filter", "all")

	var total int64
	if err := eventFilterQuery(gormDB, filter).Count(&total).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting events.")
		return
	}

	var events []models.Event
	err = eventFilterQuery(gormDB, filter).Order("date ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"pagination": gin.H{
			"currentPage": page,
			"totalPages":  totalPages,
			"totalEvents": total,
		},
	})
}

func CountEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var count int64
	if err := eventFilterQuery(gormDB, c.Param("filter")).Count(&count).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error counting events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func GetClosestEvent(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	err := gormDB.Where("date > ?", time.Now()).Order("date ASC").First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "No upcoming events found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListScannerEvents returns recent and upcoming events so the door scanner
// can pick which event it is checking people into.
func ListScannerEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	yesterday := time.Now().AddDate(0, 0, -1)

	var events []models.Event
	err := gormDB.Select("id", "title", "date", "event_type").
		Where("date >= ?", yesterday).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving events.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

type UpdateEventRequest struct {
	EventRequest
	AvailableTickets *int `json:"availableTickets"`
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if msg := validateEventRequest(&req.EventRequest); msg != "" {
		helpers.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Date = req.Date
	event.EventType = req.EventType
	event.Price = req.Price
	event.Capacity = req.Capacity
	if req.EventType == models.EventTypeOnline {
		event.Location = "Online Event"
		event.MeetingLink = req.MeetingLink
	} else {
		event.Location = req.Location
		event.MeetingLink = ""
	}
	if req.CoverImage != "" {
		event.CoverImage = req.CoverImage
	}
	if req.AvailableTickets != nil {
		if *req.AvailableTickets < 0 || *req.AvailableTickets > event.Capacity {
			helpers.RespondWithError(c, http.StatusBadRequest, "Available tickets must be between 0 and capacity.")
			return
		}
		event.AvailableTickets = *req.AvailableTickets
	}
	if event.AvailableTickets > event.Capacity {
		event.AvailableTickets = event.Capacity
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

// DeleteEvent removes an event. Issued tickets carry their own event
// snapshot and stay scannable after the event record is gone.
func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving event.")
		return
	}

	if err := gormDB.Delete(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete event.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}
