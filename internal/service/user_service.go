package service

import (
	"context"

	"github.com/tanqtrail-arch/Absence/internal/model"
	"go.uber.org/zap"
)

// ProfileProvider отдаёт профиль текущего пользователя (мессенджер, HTTP заголовки)
type ProfileProvider interface {
	Profile(ctx context.Context) (*model.Profile, error)
}

// UserService определяет личность пользователя.
// Без профиля подставляются заглушки, ошибкой это не считается.
type UserService struct {
	logger *zap.Logger
}

func NewUserService(logger *zap.Logger) *UserService {
	return &UserService{logger: logger}
}

// Lookup запрашивает профиль у provider и заполняет пустые поля заглушками
func (s *UserService) Lookup(ctx context.Context, provider ProfileProvider) model.Profile {
	if provider == nil {
		return s.Resolve(nil)
	}

	profile, err := provider.Profile(ctx)
	if err != nil {
		s.logger.Warn("Failed to get profile, using anonymous", zap.Error(err))
		return s.Resolve(nil)
	}

	return s.Resolve(profile)
}

// Resolve заполняет отсутствующие поля профиля заглушками
func (s *UserService) Resolve(profile *model.Profile) model.Profile {
	resolved := model.Profile{
		DisplayName: model.AnonymousDisplayName,
		UserID:      model.AnonymousUserID,
	}

	if profile == nil {
		return resolved
	}

	if profile.DisplayName != "" {
		resolved.DisplayName = profile.DisplayName
	}
	if profile.UserID != "" {
		resolved.UserID = profile.UserID
	}

	return resolved
}
