package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

// Notification is a rendered message for one ticket event.
type Notification struct {
	EventType events.EventType
	TicketID  string
	Recipient string
	Message   string
}

// NotificationService turns ticket events into notifications. Delivery is
// stubbed: messages are logged against the configured email and webhook
// targets.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	sink       func(Notification)
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// OnNotify registers a callback invoked with every rendered notification.
func (n *NotificationService) OnNotify(sink func(Notification)) {
	n.sink = sink
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handle)
	n.dispatcher.Subscribe(events.EventStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventAssignmentChanged, n.handle)
	n.dispatcher.Subscribe(events.EventSLABreach, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	note, ok := Render(event)
	if !ok {
		return nil
	}
	n.logger.Info("notification",
		zap.String("event_type", string(note.EventType)),
		zap.String("ticket_id", note.TicketID),
		zap.String("recipient", note.Recipient),
		zap.String("message", note.Message))

	switch event.Type {
	case events.EventTicketCreated, events.EventSLABreach:
		n.sendEmailNotificationStub(ctx, note)
		n.sendWebhookNotificationStub(ctx, note)
	case events.EventAssignmentChanged:
		n.sendEmailNotificationStub(ctx, note)
	default:
		n.sendWebhookNotificationStub(ctx, note)
	}

	if n.sink != nil {
		n.sink(note)
	}
	return nil
}

// Render builds the human-readable message for event.
func Render(event events.Event) (Notification, bool) {
	t := event.Ticket
	note := Notification{EventType: event.Type, TicketID: t.DisplayID}
	switch event.Type {
	case events.EventTicketCreated:
		note.Recipient = t.AssigneeID
		note.Message = fmt.Sprintf("New ticket created: %s - %s", t.DisplayID, t.Summary)
	case events.EventStatusChanged:
		note.Recipient = t.ReporterEmail
		note.Message = fmt.Sprintf("Ticket %s status changed to: %s", t.DisplayID, t.Status)
	case events.EventAssignmentChanged:
		note.Recipient = t.AssigneeID
		note.Message = fmt.Sprintf("Ticket %s assigned to you", t.DisplayID)
	case events.EventSLABreach:
		note.Recipient = t.AssigneeID
		note.Message = fmt.Sprintf("SLA BREACH: Ticket %s requires immediate attention", t.DisplayID)
	default:
		return Notification{}, false
	}
	return note, true
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, note Notification) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", note.Recipient),
		zap.String("ticket_id", note.TicketID),
		zap.String("event_type", string(note.EventType)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, note Notification) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", note.TicketID),
		zap.String("event_type", string(note.EventType)))
}
