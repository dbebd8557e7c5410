package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Musallamjaw/CTRL/internal/helpers"
	"github.com/Musallamjaw/CTRL/internal/middleware"
)

type ContactRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Subject     string `json:"subject" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

func SendContactMessage(c *gin.Context) {
	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	mailer := middleware.GetMailer(c)
	if mailer == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Mail service not found.")
		return
	}

	if err := mailer.SendContactMessage(req.Name, req.Email, req.PhoneNumber, req.Subject, req.Message); err != nil {
		slog.Error("contact message not delivered", "sender", req.Email, "error", err)
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error sending message.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully!"})
}
