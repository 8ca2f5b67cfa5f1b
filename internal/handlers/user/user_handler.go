// internal/handlers/user/user_handler.go
package user

import (
	"net/http"

	userDomain "humanizer-service/internal/domain/user"
	"humanizer-service/internal/middleware"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/pkg/response"
	authUsecase "humanizer-service/internal/service/auth"
	"humanizer-service/internal/service/stats"
	subUsecase "humanizer-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	authService *authUsecase.AuthService
	subService  *subUsecase.SubscriptionService
	usage       *stats.Aggregator
	logger      *zap.Logger
}

func NewUserHandler(
	authService *authUsecase.AuthService,
	subService *subUsecase.SubscriptionService,
	usage *stats.Aggregator,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		authService: authService,
		subService:  subService,
		usage:       usage,
		logger:      logger,
	}
}

// GetMe returns the authenticated account
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to load profile", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load profile", nil)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", profile)
}

// UpdateMe updates name and/or email
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req userDomain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrDuplicateEntry):
			response.Error(c, http.StatusConflict, "email already in use", nil)
		case xerrors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "user not found")
		default:
			h.logger.Error("failed to update profile", zap.Int64("user_id", userID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to update profile", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "profile updated", profile)
}

// GetCredits reports the balance on the caller's active subscription
func (h *UserHandler) GetCredits(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	credits, err := h.subService.GetCredits(c.Request.Context(), userID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNoActiveSubscription) {
			response.Forbidden(c, "no active subscription")
			return
		}
		h.logger.Error("failed to load credits", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load credits", nil)
		return
	}

	response.Success(c, http.StatusOK, "credits retrieved", credits)
}

// GetStatistics reports the caller's usage counters
func (h *UserHandler) GetStatistics(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	usage, err := h.usage.ForUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load statistics", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load statistics", nil)
		return
	}

	response.Success(c, http.StatusOK, "statistics retrieved", usage)
}
