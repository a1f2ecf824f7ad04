package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// identityEvent mirrors the identity provider's webhook envelope. Only the
// fields we consume are decoded.
type identityEvent struct {
	Type string            `mapstructure:"type"`
	Data identityEventData `mapstructure:"data"`
}

type identityEventData struct {
	ID             string `mapstructure:"id"`
	Role           string `mapstructure:"role"`
	EmailAddresses []struct {
		EmailAddress string `mapstructure:"email_address"`
	} `mapstructure:"email_addresses"`
}

func (s *Server) handleIdentityWebhook(c *gin.Context) {
	if s.webhookSecret != "" && c.GetHeader("X-Webhook-Secret") != s.webhookSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	var event identityEvent
	if err := mapstructure.Decode(payload, &event); err != nil {
		s.logger.Warn("undecodable webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	if event.Type != "user.created" {
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if len(event.Data.EmailAddresses) == 0 || event.Data.EmailAddresses[0].EmailAddress == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event has no email address"})
		return
	}

	role := event.Data.Role
	if role == "" {
		role = "DOCTOR"
	}

	email := event.Data.EmailAddresses[0].EmailAddress
	user, err := s.store.UpsertUserByEmail(email, event.Data.ID, role)
	if err != nil {
		s.logger.Error("upsert user from webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store user"})
		return
	}

	s.logger.Info("user provisioned from webhook",
		zap.String("user_id", user.ID.String()),
		zap.String("external_id", user.ExternalID),
	)
	c.JSON(http.StatusOK, gin.H{"received": true, "userId": user.ID.String()})
}
