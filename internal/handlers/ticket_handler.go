package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Musallamjaw/CTRL/internal/helpers"
	"github.com/Musallamjaw/CTRL/internal/middleware"
	"github.com/Musallamjaw/CTRL/internal/ticketing"
)

type IssueTicketsRequest struct {
	EventID         uuid.UUID `json:"eventId" binding:"required"`
	NumberOfTickets int       `json:"numberOfTickets" binding:"required,min=1,max=10"`
	UserData        struct {
		UserID string `json:"userId" binding:"required"`
		Name   string `json:"name" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
	} `json:"userData" binding:"required"`
}

func IssueTickets(c *gin.Context) {
	var req IssueTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Missing required fields.")
		return
	}

	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	result, err := service.Issue(c.Request.Context(), ticketing.IssueRequest{
		EventID: req.EventID,
		Count:   req.NumberOfTickets,
		Purchaser: ticketing.Purchaser{
			UserID: req.UserData.UserID,
			Name:   req.UserData.Name,
			Email:  req.UserData.Email,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrEventNotFound):
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
		case errors.Is(err, ticketing.ErrNotEnoughTickets):
			c.JSON(http.StatusOK, gin.H{"message": "Not enough tickets available"})
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to issue tickets.")
		}
		return
	}

	response := gin.H{
		"message": "Tickets issued successfully.",
		"tickets": result.Tickets,
	}
	if result.MailErr != nil {
		response["warning"] = "Tickets were issued but the confirmation email could not be sent."
	}
	c.JSON(http.StatusCreated, response)
}

type ScanTicketRequest struct {
	QRID string `json:"qrId" binding:"required"`
}

func ScanTicket(c *gin.Context) {
	var req ScanTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	ticket, err := service.Scan(c.Request.Context(), req.QRID)
	if err != nil {
		switch {
		case errors.Is(err, ticketing.ErrTicketNotFound):
			c.JSON(http.StatusOK, gin.H{"message": "Ticket not found"})
		case errors.Is(err, ticketing.ErrTicketUsed):
			c.JSON(http.StatusOK, gin.H{"message": "Ticket already used"})
		default:
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to scan ticket.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket used successfully",
		"ticket": gin.H{
			"eventTitle": ticket.EventData.Title,
			"name":       ticket.UserData.Name,
		},
	})
}

func CountTickets(c *gin.Context) {
	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	count, err := service.Count(c.Request.Context(), c.Param("filter"), "")
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while counting tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func CountUserTickets(c *gin.Context) {
	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	count, err := service.Count(c.Request.Context(), c.Param("filter"), c.Param("userId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while counting tickets.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func ListUserTickets(c *gin.Context) {
	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	page := helpers.ParsePage(c.DefaultQuery("page", "1"))
	filter := c.DefaultQuery("filter", "all")

	tickets, err := service.ListUserTickets(c.Request.Context(), c.Param("userId"), page, filter)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while getting tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

func CheckUserTicketForEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	service := middleware.GetTicketingService(c)
	if service == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticketing service not found.")
		return
	}

	purchased, err := service.HasTicketForEvent(c.Request.Context(), c.Param("userId"), eventID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "An error occurred while checking the ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isPurchased": purchased})
}
