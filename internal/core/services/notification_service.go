package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/config"
)

// NotificationService posts payment lifecycle events to an operations
// webhook (e.g. a Slack/Teams incoming hook). Disabled when no URL is
// configured; delivery is fire-and-forget and never blocks a payment.
type NotificationService struct {
	webhookURL string
	client     *http.Client
	enabled    bool
}

// NewNotificationService creates a new notification service
func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		webhookURL: cfg.Webhook.URL,
		client: &http.Client{
			Timeout: time.Duration(cfg.Webhook.Timeout) * time.Second,
		},
		enabled: cfg.Webhook.URL != "",
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// webhookEvent is the JSON payload posted to the hook
type webhookEvent struct {
	Event     string    `json:"event"`
	CID       string    `json:"cid"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// send posts an event to the webhook
func (s *NotificationService) send(event, cid, message string) {
	if !s.enabled {
		return
	}

	payload, err := json.Marshal(webhookEvent{
		Event:     event,
		CID:       cid,
		Message:   message,
		Timestamp: time.Now(),
	})
	if err != nil {
		return
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Printf("⚠️ Webhook delivery failed: %v", err)
		return
	}
	defer resp.Body.Close()
}

// NotifySettlement announces a recorded settlement
func (s *NotificationService) NotifySettlement(settlement *models.Settlement, cid string) {
	message := fmt.Sprintf("🧾 Settlement %s for %s recorded [%s] via %s",
		settlement.SettlementID,
		settlement.SettledAmount,
		settlement.Status,
		settlement.PaymentMethod,
	)
	go s.send("settlement.recorded", cid, message)
}

// NotifyPayment announces a recorded payment
func (s *NotificationService) NotifyPayment(payment *models.PartialPayment, cid string) {
	kind := "Partial payment"
	if payment.IsPayTotal {
		kind = "Pay-total"
	}
	message := fmt.Sprintf("💰 %s %s of %s recorded [%s] via %s",
		kind,
		payment.PaymentID,
		payment.AmountPaid,
		payment.Status,
		payment.PaymentMethod,
	)
	go s.send("payment.recorded", cid, message)
}

// NotifyVerification announces a verification decision
func (s *NotificationService) NotifyVerification(recordID, decision, reason, cid string) {
	message := fmt.Sprintf("🔎 %s verified: %s", recordID, decision)
	if reason != "" {
		message += " (" + reason + ")"
	}
	go s.send("payment.verified", cid, message)
}

// NotifyOverdue announces the daily overdue scan result
func (s *NotificationService) NotifyOverdue(flagged int64) {
	if flagged == 0 {
		return
	}
	message := fmt.Sprintf("⏰ Overdue scan flagged %d transaction(s) past due date", flagged)
	go s.send("credit.overdue", "", message)
}
