package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"club-cms-api/internal/domain"
	"club-cms-api/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	const op = "repo.UserRepo.Create"
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	if !u.Role.Valid() {
		return domain.Validation(fmt.Sprintf("invalid role %q", u.Role))
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "repo.UserRepo.FindByID", "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "repo.UserRepo.FindByEmail", "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, op, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, fmt.Errorf("repo.UserRepo.ExistsByEmail: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error) {
	const op = "repo.UserRepo.List"
	page := f.PageQuery.Normalize()
	scope := func(q *gorm.DB) *gorm.DB {
		if s := strings.TrimSpace(f.Query); s != "" {
			like := likePattern(s)
			q = q.Where("email LIKE ? ESCAPE '!' OR firstname LIKE ? ESCAPE '!' OR lastname LIKE ? ESCAPE '!'", like, like, like)
		}
		if f.Role != "" {
			q = q.Where("role = ?", f.Role)
		}
		return q
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}
	var users []domain.User
	err := r.db.WithContext(ctx).Scopes(scope).
		Order("created_at DESC").Order("id").
		Limit(page.Size).Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return users, total, nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if !role.Valid() {
		return domain.Validation(fmt.Sprintf("invalid role %q", role))
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("role", role)
	if res.Error != nil {
		return fmt.Errorf("repo.UserRepo.UpdateRole: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
