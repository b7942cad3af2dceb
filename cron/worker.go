package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"slotline/config"
	"slotline/models"
	"slotline/services/notification"
	"slotline/services/tasks"
	"slotline/utils"
)

// StartNotificationWorker runs the asynq worker that drains the notification
// queue. The returned server is live; the caller owns its Shutdown.
func StartNotificationWorker(sender notification.Sender) (*asynq.Server, error) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationSend, handleNotificationTask(sender))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start notification worker: %w", err)
	}
	utils.GetLogger().Info("notification worker started",
		zap.String("redisAddr", redisOpts.Addr), zap.Int("queueDB", redisOpts.DB))
	return srv, nil
}

func handleNotificationTask(sender notification.Sender) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload models.NotificationTask
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// A payload that does not unmarshal never will; don't retry it.
			utils.GetLogger().Error("invalid notification payload", zap.Error(err))
			return fmt.Errorf("unmarshal notification payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(ctx, payload); err != nil {
			utils.GetLogger().Warn("notification delivery failed",
				zap.String("recipientID", payload.RecipientID), zap.Error(err))
			return err
		}
		return nil
	}
}
