package device

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gameshelf/internal/domain"
	"gameshelf/internal/repository"
)

type Service interface {
	Register(ctx context.Context, userID uuid.UUID, input domain.RegisterDeviceInput) (*domain.Device, error)
	Remove(ctx context.Context, userID uuid.UUID, token string) error
}

type service struct {
	deviceRepo repository.DeviceRepository
}

func NewService(deviceRepo repository.DeviceRepository) Service {
	return &service{deviceRepo: deviceRepo}
}

func (s *service) Register(ctx context.Context, userID uuid.UUID, input domain.RegisterDeviceInput) (*domain.Device, error) {
	device := &domain.Device{
		Token:    input.Token,
		UserID:   userID,
		Platform: input.Platform,
	}
	if err := s.deviceRepo.Register(ctx, device); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}
	return device, nil
}

func (s *service) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	return s.deviceRepo.Delete(ctx, token, userID)
}
