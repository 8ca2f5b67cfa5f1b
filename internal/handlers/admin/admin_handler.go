// internal/handlers/admin/admin_handler.go
package admin

import (
	"net/http"
	"strconv"

	xerrors "humanizer-service/internal/pkg/errors"
	"humanizer-service/internal/pkg/response"
	adminUsecase "humanizer-service/internal/service/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminService *adminUsecase.AdminService
	logger       *zap.Logger
}

func NewAdminHandler(adminService *adminUsecase.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// ListUsers pages through all accounts
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.adminService.ListUsers(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to list users", nil)
		return
	}

	response.Success(c, http.StatusOK, "users retrieved", users)
}

// GetUser returns one account with its subscription and usage
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	detail, err := h.adminService.GetUserDetail(c.Request.Context(), id)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to load user detail", zap.Int64("user_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load user", nil)
		return
	}

	response.Success(c, http.StatusOK, "user retrieved", detail)
}

// GetStats returns service-wide usage counters
func (h *AdminHandler) GetStats(c *gin.Context) {
	platformStats, err := h.adminService.GetPlatformStats(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load platform stats", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to load stats", nil)
		return
	}

	response.Success(c, http.StatusOK, "stats retrieved", platformStats)
}

// PromoteUser grants admin rights to an account
func (h *AdminHandler) PromoteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "invalid user id", nil)
		return
	}

	if err := h.adminService.PromoteUser(c.Request.Context(), id); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		h.logger.Error("failed to promote user", zap.Int64("user_id", id), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "failed to promote user", nil)
		return
	}

	response.Success(c, http.StatusOK, "user promoted", nil)
}
