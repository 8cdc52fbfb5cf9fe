package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"club-cms-api/internal/domain"
	"club-cms-api/internal/service"
	httpez "club-cms-api/internal/transport/http/ez"
	mdw "club-cms-api/internal/transport/http/middleware"
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

// MountAPI registers /auth/register and /auth/login on the public group and
// /auth/me on the authenticated one.
func (h *AuthHandler) MountAPI(public, authed httpez.EZ) {
	type registerIn struct {
		Firstname string `json:"firstname" binding:"required,max=64"`
		Lastname  string `json:"lastname"  binding:"required,max=64"`
		Email     string `json:"email"     binding:"required,email,max=191"`
		Password  string `json:"password"  binding:"required,min=6,max=72"`
		Role      string `json:"role"`
	}
	httpez.RegisterAction[registerIn, *service.AuthResult](public, httpez.Action[registerIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (*service.AuthResult, error) {
			return h.svc.Register(c.Request.Context(), service.RegisterInput{
				Firstname: in.Firstname,
				Lastname:  in.Lastname,
				Email:     in.Email,
				Password:  in.Password,
				Role:      in.Role,
			})
		},
	})

	type loginIn struct {
		Email    string `json:"email"    binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[loginIn, *service.AuthResult](public, httpez.Action[loginIn, *service.AuthResult]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.AuthResult, error) {
			return h.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	httpez.RegisterAction[struct{}, *domain.User](authed, httpez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			id, err := identity(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Profile(c.Request.Context(), id)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](authed, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/auth/me",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := identity(c)
			if err != nil {
				return nil, err
			}
			if err := h.svc.DeleteSelf(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}

func identity(c *gin.Context) (string, error) {
	id, ok := mdw.IdentityFrom(c)
	if !ok {
		return "", domain.ErrMissingToken
	}
	return id.ID, nil
}
