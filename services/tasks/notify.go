package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"slotline/models"
)

const TypeNotificationSend = "notification:send"

// NewNotificationTask wraps a notification payload for the queue. Delivery
// retries are the queue's job, not the enqueuer's.
func NewNotificationTask(payload models.NotificationTask) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationSend, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}
