package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Musallamjaw/CTRL/internal/mail"
)

func MailerMiddleware(mailer *mail.SMTPSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("mailer", mailer)
		c.Next()
	}
}

func GetMailer(c *gin.Context) *mail.SMTPSender {
	mailer, exists := c.Get("mailer")
	if !exists {
		return nil
	}
	return mailer.(*mail.SMTPSender)
}
