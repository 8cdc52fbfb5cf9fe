package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"club-cms-api/internal/domain"
	"club-cms-api/internal/service"
	httpez "club-cms-api/internal/transport/http/ez"
)

type UserAdminHandler struct{ svc *service.UserService }

func NewUserAdminHandler(svc *service.UserService) *UserAdminHandler {
	return &UserAdminHandler{svc: svc}
}

func (h *UserAdminHandler) MountAdmin(admin httpez.EZ) {
	type listQ struct {
		Q    string `form:"q"`
		Role string `form:"role"`
		domain.PageQuery
	}
	httpez.RegisterAction[listQ, domain.Page[domain.User]](admin, httpez.Action[listQ, domain.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (domain.Page[domain.User], error) {
			return h.svc.List(c.Request.Context(), domain.UserFilter{
				Query:     in.Q,
				Role:      domain.Role(strings.ToUpper(strings.TrimSpace(in.Role))),
				PageQuery: in.PageQuery,
			})
		},
	})

	type roleIn struct {
		Role string `json:"role" binding:"required"`
	}
	httpez.RegisterAction[roleIn, *domain.User](admin, httpez.Action[roleIn, *domain.User]{
		Method: http.MethodPatch,
		Path:   "/users/:id/role",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *roleIn) (*domain.User, error) {
			actor, err := identity(c)
			if err != nil {
				return nil, err
			}
			return h.svc.ChangeRole(c.Request.Context(), actor, c.Param("id"), in.Role)
		},
	})

	httpez.RegisterAction[struct{}, gin.H](admin, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return nil, err
			}
			return gin.H{"id": id}, nil
		},
	})
}
