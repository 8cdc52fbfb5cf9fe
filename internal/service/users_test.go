package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"club-cms-api/internal/domain"
	"club-cms-api/internal/repo"
	"club-cms-api/internal/repo/repotest"
)

func TestUserService_ChangeRole(t *testing.T) {
	users := repo.NewUserRepo(repotest.OpenSQLite(t))
	s := NewUserService(users, zap.NewNop())
	ctx := context.Background()

	admin := &domain.User{Firstname: "A", Lastname: "D", Email: "admin@club.test", PasswordHash: "x", Role: domain.RoleAdmin}
	fan := &domain.User{Firstname: "F", Lastname: "N", Email: "fan@club.test", PasswordHash: "x", Role: domain.RoleUser}
	require.NoError(t, users.Create(ctx, admin))
	require.NoError(t, users.Create(ctx, fan))

	u, err := s.ChangeRole(ctx, admin.ID, fan.ID, "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	_, err = s.ChangeRole(ctx, admin.ID, admin.ID, "USER")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = s.ChangeRole(ctx, admin.ID, fan.ID, "OWNER")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = s.ChangeRole(ctx, admin.ID, "missing", "USER")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	u, err = s.ChangeRole(ctx, admin.ID, admin.ID, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
}

func TestUserService_List(t *testing.T) {
	users := new(mockUserRepo)
	f := domain.UserFilter{Role: domain.RoleAdmin, PageQuery: domain.PageQuery{Page: 2, Size: 5}}
	users.On("List", mock.Anything, f).Return([]domain.User{{ID: "a1"}}, int64(6), nil)
	s := NewUserService(users, zap.NewNop())

	p, err := s.List(context.Background(), f)
	require.NoError(t, err)
	assert.EqualValues(t, 6, p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.Size)
	require.Len(t, p.Items, 1)

	_, err = s.List(context.Background(), domain.UserFilter{Role: "ROOT"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	users.AssertExpectations(t)
}

func TestUserService_Delete(t *testing.T) {
	users := new(mockUserRepo)
	users.On("Delete", mock.Anything, "u1").Return(nil)
	users.On("Delete", mock.Anything, "u2").Return(domain.ErrUserNotFound)
	s := NewUserService(users, zap.NewNop())

	assert.NoError(t, s.Delete(context.Background(), "u1"))
	assert.ErrorIs(t, s.Delete(context.Background(), "u2"), domain.ErrUserNotFound)
}
