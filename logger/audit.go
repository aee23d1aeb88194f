package logger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Audit actions.
const (
	ActionReportGenerated = "REPORT_GENERATED"
)

// AuditLog is one audited action.
type AuditLog struct {
	LogID     string `json:"log_id"`
	Timestamp string `json:"timestamp"`
	UserID    string `json:"user_id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
}

// Audit writes a structured audit line and returns the recorded entry.
func Audit(log logrus.FieldLogger, userID, action, details string) AuditLog {
	now := time.Now()
	entry := AuditLog{
		LogID:     fmt.Sprintf("log-%d", now.UnixNano()),
		Timestamp: now.UTC().Format(time.RFC3339),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	log.WithFields(logrus.Fields{
		"audit":   true,
		"log_id":  entry.LogID,
		"user_id": entry.UserID,
		"action":  entry.Action,
		"details": entry.Details,
	}).Info("📋 AUDIT")
	return entry
}
