package notification

import (
	"context"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotline/models"
	"slotline/services/tasks"
	"slotline/utils"
)

// Service triggers notifications as external side effects. Callers treat it
// as fire-and-forget: a returned error is for their log line, never for
// rolling back the transition that caused the notification.
type Service interface {
	Notify(ctx context.Context, recipientID string, recipientRole models.Role, n models.Notification) error
}

// Sender delivers a queued notification to its recipient. Actual delivery
// (push, email, whatever) is an external collaborator behind this interface.
type Sender interface {
	Send(ctx context.Context, task models.NotificationTask) error
}

// AsynqNotificationService enqueues notification tasks for the background
// worker.
type AsynqNotificationService struct {
	Client *asynq.Client
}

func NewAsynqNotificationService(client *asynq.Client) *AsynqNotificationService {
	return &AsynqNotificationService{Client: client}
}

func (s *AsynqNotificationService) Notify(ctx context.Context, recipientID string, recipientRole models.Role, n models.Notification) error {
	task, opts, err := tasks.NewNotificationTask(models.NotificationTask{
		RecipientID:   recipientID,
		RecipientRole: recipientRole,
		Notification:  n,
	})
	if err != nil {
		return err
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		utils.GetLogger().Error("failed to enqueue notification",
			zap.String("recipientID", recipientID), zap.Error(err))
		return err
	}
	return nil
}

// LogSender is the default Sender: it writes the notification to the log.
// Real delivery channels plug in behind the Sender interface.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, task models.NotificationTask) error {
	utils.GetLogger().Info("notification",
		zap.String("recipientID", task.RecipientID),
		zap.String("recipientRole", string(task.RecipientRole)),
		zap.String("title", task.Notification.Title),
		zap.String("category", task.Notification.Category),
		zap.String("body", task.Notification.Body))
	return nil
}
