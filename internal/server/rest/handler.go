package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmatveev/authd/internal/common"
	"github.com/dmatveev/authd/internal/logging"
	"github.com/dmatveev/authd/internal/server/models"
)

// AuthFlow is the slice of the auth service the HTTP layer needs.
type AuthFlow interface {
	SignUp(ctx context.Context, email, username, fullName, plainPassword string) (*models.User, error)
	Login(ctx context.Context, email, plainPassword string) error
	VerifyCode(ctx context.Context, email, code string) (string, error)
	ResendCode(ctx context.Context, email string) error
}

// UserStore is the slice of the user service the HTTP layer needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id, fullName, username, plainPassword string) (*models.User, error)
	Delete(ctx context.Context, id string) error
}

// Handler translates HTTP requests into service calls and service errors
// into status codes.
type Handler struct {
	auth   AuthFlow
	users  UserStore
	logger logging.Logger
}

func NewHandler(auth AuthFlow, users UserStore, logger logging.Logger) *Handler {
	return &Handler{auth: auth, users: users, logger: logger.With("module", "rest")}
}

// writeError maps the service sentinels onto the HTTP surface. Anything
// unrecognized is a 500, logged but not leaked to the client.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	case errors.Is(err, common.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, common.ErrCodeExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "verification code expired"})
	case errors.Is(err, common.ErrCodeMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "verification code invalid"})
	case errors.Is(err, common.ErrDeliveryFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification mail could not be delivered"})
	case errors.Is(err, common.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		h.logger.Error(c.Request.Context(), "unhandled service error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Username, req.FullName, req.Password)
	if err != nil {
		// The account may exist already with a valid code; the client
		// recovers via resend.
		if user != nil && errors.Is(err, common.ErrDeliveryFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error": "account created but the verification mail could not be delivered",
				"user":  toUserResponse(user),
			})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.Login(c.Request.Context(), req.Email, req.Password); err != nil {
		// An unknown email reports the same as a bad password so login
		// cannot be used to probe which addresses are registered.
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verification code sent"})
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *Handler) Resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResendCode(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verification code sent"})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), UserIDFromContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) ListUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]userResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), req.FullName, req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
