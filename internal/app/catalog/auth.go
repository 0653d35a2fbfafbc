package catalog

import (
	"context"
	"fmt"

	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/domain"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

func (s *Service) Login(ctx context.Context, cmd interfaces.LoginCommand) (interfaces.AuthResult, error) {
	res, err := s.auth.Login(ctx, cmd)
	if err != nil {
		return interfaces.AuthResult{}, fmt.Errorf("login failed: %w", err)
	}
	return res, nil
}

func (s *Service) Register(ctx context.Context, cmd interfaces.RegisterCommand) (interfaces.AuthResult, error) {
	res, err := s.auth.Register(ctx, cmd)
	if err != nil {
		return interfaces.AuthResult{}, fmt.Errorf("registration failed: %w", err)
	}
	return res, nil
}

func (s *Service) Profile(ctx context.Context) (domain.User, error) {
	key := querycache.Key{Scope: querycache.ScopeProfile, User: interfaces.SessionFrom(ctx).UserKey}
	return querycache.Fetch(ctx, s.cache, key, s.auth.Profile)
}

func (s *Service) UpdateProfile(ctx context.Context, cmd interfaces.UpdateProfileCommand) (domain.User, error) {
	user, err := s.auth.UpdateProfile(ctx, cmd)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to update profile: %w", err)
	}
	s.cache.Invalidate(querycache.ScopeProfile, interfaces.SessionFrom(ctx).UserKey)
	return user, nil
}
