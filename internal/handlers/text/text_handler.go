// internal/handlers/text/text_handler.go
package text

import (
	"net/http"
	"strconv"

	textDomain "humanizer-service/internal/domain/text"
	"humanizer-service/internal/middleware"
	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/pkg/response"
	textUsecase "humanizer-service/internal/service/text"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TextHandler struct {
	textService *textUsecase.Service
	logger      *zap.Logger
}

func NewTextHandler(textService *textUsecase.Service, logger *zap.Logger) *TextHandler {
	return &TextHandler{
		textService: textService,
		logger:      logger,
	}
}

// Humanize runs one paid transformation
func (h *TextHandler) Humanize(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req textDomain.HumanizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.textService.Humanize(c.Request.Context(), userID, &req)
	if err != nil {
		if ice, ok := xerrors.AsInsufficientCredits(err); ok {
			response.InsufficientCredits(c, ice.Needed, ice.Remaining)
			return
		}
		switch {
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "text is required", nil)
		case xerrors.Is(err, xerrors.ErrNoActiveSubscription):
			response.Forbidden(c, "no active subscription")
		case xerrors.Is(err, xerrors.ErrHumanizationFailed):
			h.logger.Error("humanization failed", zap.Int64("user_id", userID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "humanization failed", nil)
		default:
			h.logger.Error("humanize request failed", zap.Int64("user_id", userID), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "humanization failed", nil)
		}
		return
	}

	response.Success(c, http.StatusCreated, "text humanized", result)
}

// History pages through the caller's past transformations
func (h *TextHandler) History(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	history, err := h.textService.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		h.logger.Error("failed to load history", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load history", nil)
		return
	}

	response.Success(c, http.StatusOK, "history retrieved", history)
}

// Get returns one of the caller's records
func (h *TextHandler) Get(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid record id", nil)
		return
	}

	record, err := h.textService.Get(c.Request.Context(), userID, id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "record not found")
			return
		}
		h.logger.Error("failed to load record", zap.Int64("user_id", userID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load record", nil)
		return
	}

	response.Success(c, http.StatusOK, "record retrieved", record)
}
