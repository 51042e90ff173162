package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/healthyfootprints/reminder-api/pkg/errors"

	"github.com/healthyfootprints/reminder-api/internal/handler"
	"github.com/healthyfootprints/reminder-api/internal/model"
	"github.com/healthyfootprints/reminder-api/internal/service/auth"
)

// SessionCookie is the name of the cookie carrying the staff session token.
const SessionCookie = "hf_session"

type Handler struct {
	service      auth.Service
	cookieMaxAge time.Duration
	secureCookie bool
}

func NewHandler(service auth.Service, cookieMaxAge time.Duration, secureCookie bool) *Handler {
	return &Handler{
		service:      service,
		cookieMaxAge: cookieMaxAge,
		secureCookie: secureCookie,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	grp := r.Group("/auth")
	{
		grp.POST("/register", h.Register)
		grp.POST("/login", h.Login)
		grp.POST("/logout", h.Logout)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	staff, err := h.service.RegisterStaff(c.Request.Context(), &req)
	if err != nil {
		if apperrors.IsBadRequest(err) {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to register staff"))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(staff))
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	staff, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountLocked) {
			c.JSON(http.StatusForbidden, handler.NewErrorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid credentials"))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(h.cookieMaxAge.Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(&model.LoginResponse{
		Staff:     staff,
		ExpiresAt: time.Now().Add(h.cookieMaxAge),
	}))
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
