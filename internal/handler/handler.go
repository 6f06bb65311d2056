package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"gameshelf/internal/domain"
	"gameshelf/internal/middleware"
	"gameshelf/internal/service"
)

var validate = validator.New()

type Handlers struct {
	Notification *NotificationHandler
	Settings     *SettingsHandler
	Device       *DeviceHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Notification: NewNotificationHandler(services.Notification),
		Settings:     NewSettingsHandler(services.Preference),
		Device:       NewDeviceHandler(services.Device),
	}
}

// parseBody decodes the request body and runs struct validation on it.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	return validate.Struct(out)
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", domain.DefaultPageSize); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}
