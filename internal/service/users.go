package service

import (
	"context"

	"go.uber.org/zap"

	"club-cms-api/internal/domain"
)

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter) (domain.Page[domain.User], error) {
	if f.Role != "" && !f.Role.Valid() {
		return domain.Page[domain.User]{}, domain.Validation("role must be USER or ADMIN")
	}
	items, total, err := s.users.List(ctx, f)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(items, total, f.PageQuery), nil
}

// ChangeRole sets targetID's role. An admin cannot demote themselves.
func (s *UserService) ChangeRole(ctx context.Context, actorID, targetID, role string) (*domain.User, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.Validation("role must be USER or ADMIN")
	}
	if actorID == targetID && r != domain.RoleAdmin {
		return nil, domain.Validation("admins cannot demote themselves")
	}
	if err := s.users.UpdateRole(ctx, targetID, r); err != nil {
		return nil, err
	}
	s.log.Info("role changed", zap.String("actor", actorID), zap.String("uid", targetID), zap.String("role", string(r)))
	return s.users.FindByID(ctx, targetID)
}

func (s *UserService) Delete(ctx context.Context, targetID string) error {
	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("uid", targetID))
	return nil
}
