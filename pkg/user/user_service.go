package user

import (
	"PayGuard-Backend/domain"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	UserService interface {
		RegisterDeviceToken(ctx context.Context, req domain.RegisterDeviceTokenRequest, userID string) error
	}

	userService struct {
		userRepository UserRepository
	}
)

func NewUserService(userRepository UserRepository) UserService {
	return &userService{
		userRepository: userRepository,
	}
}

func (s *userService) RegisterDeviceToken(ctx context.Context, req domain.RegisterDeviceTokenRequest, userID string) error {
	if _, err := s.userRepository.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	return s.userRepository.UpdateDeviceToken(ctx, userID, req.ExpoPushToken)
}
