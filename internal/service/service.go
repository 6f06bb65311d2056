package service

import (
	"log/slog"

	"firebase.google.com/go/v4/messaging"
	"github.com/redis/go-redis/v9"

	"gameshelf/internal/config"
	"gameshelf/internal/repository"
	"gameshelf/internal/service/device"
	"gameshelf/internal/service/dispatch"
	"gameshelf/internal/service/email"
	"gameshelf/internal/service/notification"
	"gameshelf/internal/service/preference"
	"gameshelf/internal/service/push"
)

type Services struct {
	Preference   preference.Service
	Notification notification.Service
	Device       device.Service
	Queue        *dispatch.Queue
}

func NewServices(repos *repository.Repositories, redis *redis.Client, fcm *messaging.Client, cfg *config.Config, logger *slog.Logger) *Services {
	emailSender := email.NewSender(cfg, logger)
	pushSender := push.NewSender(fcm, logger)

	dispatcher := dispatch.NewDispatcher(repos.User, repos.Device, emailSender, pushSender, logger)
	queue := dispatch.NewQueue(dispatcher, cfg.DispatchDelay, logger)

	preferenceService := preference.NewService(repos.Preference, repos.User, logger)
	notificationService := notification.NewService(repos.Notification, preferenceService, queue, redis, cfg.UnreadCacheTTL, logger)
	deviceService := device.NewService(repos.Device)

	return &Services{
		Preference:   preferenceService,
		Notification: notificationService,
		Device:       deviceService,
		Queue:        queue,
	}
}
