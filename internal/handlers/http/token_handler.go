package http

import (
	"net/http"
	"strings"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	"mediagate/pkg/errors"
	"mediagate/pkg/validation"

	"github.com/gin-gonic/gin"
)

type TokenHandler struct {
	tokenService services.TokenService
	entitlements ports.EntitlementChecker
	metrics      ports.MetricsRecorder
}

func NewTokenHandler(tokenService services.TokenService, entitlements ports.EntitlementChecker, metrics ports.MetricsRecorder) *TokenHandler {
	return &TokenHandler{
		tokenService: tokenService,
		entitlements: entitlements,
		metrics:      metrics,
	}
}

type IssueTokenRequest struct {
	UserID      string   `json:"user_id" binding:"required,max=64"`
	ContentID   string   `json:"content_id" binding:"required,max=64"`
	Permissions []string `json:"permissions" binding:"required,min=1,max=8"`
}

// IssueToken mints a signed access token for a (user, content) pair. Caller
// authentication happens upstream; entitlement is confirmed here before the
// token service is ever asked to sign.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req IssueTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidRequestError("invalid request format"))
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.ContentID = strings.TrimSpace(req.ContentID)

	if err := validation.ValidateUserID(req.UserID); err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}
	if err := validation.ValidateContentID(req.ContentID); err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}
	if err := validation.ValidatePermissions(req.Permissions); err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}

	userID := domain.UserID(req.UserID)
	contentID := domain.ContentID(req.ContentID)

	entitled, err := h.entitlements.Entitled(c.Request.Context(), userID, contentID)
	if err != nil {
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "entitlement check failed", http.StatusInternalServerError))
		return
	}
	if !entitled {
		c.Error(errors.NewNotEntitledError())
		return
	}

	perms := make([]domain.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, domain.Permission(p))
	}

	issued, err := h.tokenService.Issue(userID, contentID, perms)
	if err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}

	if h.metrics != nil {
		h.metrics.TokenIssued()
	}

	c.JSON(http.StatusCreated, gin.H{
		"access_token": issued.Token,
		"expires_at":   issued.ExpiresAt,
		"watermark":    issued.Watermark,
	})
}
