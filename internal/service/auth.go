package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"club-cms-api/internal/core/auth"
	"club-cms-api/internal/domain"
)

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type RegisterInput struct {
	Firstname string
	Lastname  string
	Email     string
	Password  string
	Role      string
}

type AuthOptions struct {
	// AllowSelfAdmin lets a registering client ask for the ADMIN role.
	AllowSelfAdmin bool
}

type AuthService struct {
	users  domain.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	log    *zap.Logger
	opts   AuthOptions

	// dummyHash is compared against on unknown emails so that a miss costs
	// the same bcrypt work as a wrong password.
	dummyHash string
}

func NewAuthService(users domain.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *zap.Logger, opts AuthOptions) (*AuthService, error) {
	dummy, err := hasher.Hash("club-cms-api/timing-parity")
	if err != nil {
		return nil, fmt.Errorf("service.NewAuthService: %w", err)
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log, opts: opts, dummyHash: dummy}, nil
}

func (s *AuthService) roleFor(requested string) domain.Role {
	if s.opts.AllowSelfAdmin && requested == string(domain.RoleAdmin) {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validateRegister(in); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyExists
	}

	digest, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         s.roleFor(in.Role),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	if in.Role != "" && domain.Role(in.Role) != u.Role {
		s.log.Info("requested role ignored", zap.String("uid", u.ID), zap.String("requested", in.Role))
	}
	s.log.Info("user registered", zap.String("uid", u.ID), zap.String("role", string(u.Role)))

	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		s.hasher.Verify(password, s.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// DeleteSelf removes the caller's account. Tokens already issued stay valid
// until they expire but Profile will report the user as gone.
func (s *AuthService) DeleteSelf(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user deleted own account", zap.String("uid", userID))
	return nil
}

// BootstrapAdmin promotes the account with in.Email to ADMIN, creating it when
// it does not exist. created reports which of the two happened.
func (s *AuthService) BootstrapAdmin(ctx context.Context, in RegisterInput) (u *domain.User, created bool, err error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, false, domain.Validation("email is required")
	}

	u, err = s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		if u.Role != domain.RoleAdmin {
			if err := s.users.UpdateRole(ctx, u.ID, domain.RoleAdmin); err != nil {
				return nil, false, err
			}
			u.Role = domain.RoleAdmin
		}
		s.log.Info("admin promoted", zap.String("uid", u.ID))
		return u, false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, false, err
	}

	if err := validateRegister(in); err != nil {
		return nil, false, err
	}
	digest, err := s.hash(in.Password)
	if err != nil {
		return nil, false, err
	}
	u = &domain.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         domain.RoleAdmin,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, err
	}
	s.log.Info("admin created", zap.String("uid", u.ID))
	return u, true, nil
}

func (s *AuthService) hash(password string) (string, error) {
	digest, err := s.hasher.Hash(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", domain.Validation("password must be at most 72 bytes")
	}
	if err != nil {
		return "", domain.Internal("hash password", err)
	}
	return digest, nil
}

func (s *AuthService) issue(u *domain.User) (*AuthResult, error) {
	tok, err := s.tokens.Issue(auth.Identity{ID: u.ID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		return nil, domain.Internal("issue token", err)
	}
	return &AuthResult{User: u, Token: tok}, nil
}

func validateRegister(in RegisterInput) error {
	switch {
	case strings.TrimSpace(in.Firstname) == "":
		return domain.Validation("firstname is required")
	case strings.TrimSpace(in.Lastname) == "":
		return domain.Validation("lastname is required")
	case strings.TrimSpace(in.Email) == "":
		return domain.Validation("email is required")
	case in.Password == "":
		return domain.Validation("password is required")
	}
	return nil
}
