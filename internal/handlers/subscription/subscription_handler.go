// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"
	"strconv"

	subDomain "humanizer-service/internal/domain/subscription"
	"humanizer-service/internal/middleware"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/pkg/response"
	subUsecase "humanizer-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	subService *subUsecase.SubscriptionService
	logger     *zap.Logger
}

func NewSubscriptionHandler(subService *subUsecase.SubscriptionService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subService: subService,
		logger:     logger,
	}
}

// ListPlans returns the plan catalog (public endpoint)
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	response.Success(c, http.StatusOK, "plans retrieved", h.subService.ListPlans())
}

// GetCurrent returns the caller's active subscription
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	current, err := h.subService.GetActive(c.Request.Context(), userID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNoActiveSubscription) {
			response.NotFound(c, "no active subscription")
			return
		}
		h.logger.Error("failed to load subscription", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load subscription", nil)
		return
	}

	response.Success(c, http.StatusOK, "subscription retrieved", current)
}

// Update rewrites one subscription's plan in place
func (h *SubscriptionHandler) Update(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid subscription id", nil)
		return
	}

	var req subDomain.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	updated, err := h.subService.UpdatePlan(c.Request.Context(), userID, id, &req)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "unknown plan", nil)
		case xerrors.Is(err, xerrors.ErrNotFound):
			response.NotFound(c, "subscription not found")
		default:
			h.logger.Error("subscription update failed",
				zap.Int64("user_id", userID),
				zap.Int64("subscription_id", id),
				zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "subscription update failed", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, "subscription updated", updated)
}

// ChangePlan switches the caller to another tier
func (h *SubscriptionHandler) ChangePlan(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req subDomain.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	updated, err := h.subService.ChangePlan(c.Request.Context(), userID, &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, "unknown plan", nil)
			return
		}
		h.logger.Error("plan change failed",
			zap.Int64("user_id", userID),
			zap.String("plan", req.PlanID),
			zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "plan change failed", nil)
		return
	}

	response.Success(c, http.StatusOK, "plan changed", updated)
}
