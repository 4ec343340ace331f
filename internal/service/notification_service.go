package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hailemariam-eyayu/dmudms-next-sub000/internal/models"
	"github.com/hailemariam-eyayu/dmudms-next-sub000/pkg/jobs"
)

// NotificationEvent is the payload dispatched to the notification queue.
type NotificationEvent struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NotificationSender delivers one event. Actual transport (email, SMS) is
// pluggable; the default sender only logs.
type NotificationSender interface {
	Send(ctx context.Context, event NotificationEvent) error
}

// LogSender writes notifications to the application log instead of sending
// them anywhere.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender constructs a logging sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// Send logs the event.
func (s *LogSender) Send(ctx context.Context, event NotificationEvent) error {
	s.logger.Info("notification dispatched",
		zap.String("type", event.Type),
		zap.String("recipient", event.Recipient),
		zap.String("subject", event.Subject))
	return nil
}

// NotificationConfig tunes the background notification queue.
type NotificationConfig struct {
	Enabled bool
	Queue   jobs.QueueConfig
}

// NotificationService pushes portal events onto a background worker queue.
type NotificationService struct {
	queue   *jobs.Queue
	sender  NotificationSender
	logger  *zap.Logger
	enabled bool
}

// NewNotificationService constructs the service and its queue.
func NewNotificationService(sender NotificationSender, cfg NotificationConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sender == nil {
		sender = NewLogSender(logger)
	}
	s := &NotificationService{sender: sender, logger: logger, enabled: cfg.Enabled}
	queueCfg := cfg.Queue
	if queueCfg.Logger == nil {
		queueCfg.Logger = logger
	}
	s.queue = jobs.NewQueue("notifications", s.handle, queueCfg)
	return s
}

// Start launches the queue workers.
func (s *NotificationService) Start(ctx context.Context) {
	if !s.enabled {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	if !s.enabled {
		return
	}
	s.queue.Stop()
}

// NotifyExitPaperDecision enqueues a decision notice for the student.
func (s *NotificationService) NotifyExitPaperDecision(paper *models.ExitPaperDetail) {
	if !s.enabled || paper == nil {
		return
	}
	event := NotificationEvent{
		Type:      "exit_paper_decision",
		Recipient: paper.StudentCode,
		Subject:   fmt.Sprintf("Exit paper %s", paper.Status),
		Body:      fmt.Sprintf("Your exit request for %s was %s.", paper.LeaveDate.Format("2006-01-02"), paper.Status),
	}
	s.enqueue(event)
}

// NotifyMaintenanceResolved enqueues a resolution notice for the reporter.
func (s *NotificationService) NotifyMaintenanceResolved(request *models.MaintenanceRequestDetail) {
	if !s.enabled || request == nil {
		return
	}
	event := NotificationEvent{
		Type:      "maintenance_resolved",
		Recipient: request.ReportedBy,
		Subject:   fmt.Sprintf("Maintenance resolved for room %s", request.RoomNumber),
		Body:      request.Description,
	}
	s.enqueue(event)
}

func (s *NotificationService) enqueue(event NotificationEvent) {
	job := jobs.Job{
		ID:      uuid.NewString(),
		Type:    event.Type,
		Payload: event,
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("type", event.Type), zap.Error(err))
	}
}

func (s *NotificationService) handle(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(NotificationEvent)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	return s.sender.Send(ctx, event)
}
