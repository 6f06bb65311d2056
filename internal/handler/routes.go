package handler

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the authenticated API on router. The literal settings
// paths are registered before the :type parameter route.
func RegisterRoutes(router fiber.Router, h *Handlers) {
	notifications := router.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Put("/read-all", h.Notification.MarkAllAsRead)
	notifications.Put("/:id/read", h.Notification.MarkAsRead)
	notifications.Delete("/:id", h.Notification.Delete)

	settings := router.Group("/settings/notifications")
	settings.Get("/", h.Settings.Get)
	settings.Put("/", h.Settings.BulkUpdate)
	settings.Put("/master", h.Settings.UpdateMaster)
	settings.Put("/:type", h.Settings.UpdateType)

	devices := router.Group("/devices")
	devices.Post("/", h.Device.Register)
	devices.Delete("/:token", h.Device.Remove)
}
