package http

import (
	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	"mediagate/pkg/errors"
	"mediagate/pkg/tracing"
	"mediagate/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StreamHandler struct {
	gatekeeper services.Gatekeeper
	delivery   ports.MediaDelivery
	logger     *zap.SugaredLogger
}

func NewStreamHandler(gatekeeper services.Gatekeeper, delivery ports.MediaDelivery, logger *zap.SugaredLogger) *StreamHandler {
	return &StreamHandler{
		gatekeeper: gatekeeper,
		delivery:   delivery,
		logger:     logger,
	}
}

// Stream admits or rejects a playback request and, on admission, hands the
// transport to the delivery layer. The concurrency slot is released when
// that handoff returns, on every path: completion, error or client abort.
func (h *StreamHandler) Stream(c *gin.Context) {
	contentID := c.Query("content_id")
	token := c.Query("access_token")
	clientID := c.Query("client_id")

	if contentID == "" || token == "" || clientID == "" {
		c.Error(errors.NewInvalidRequestError("content_id, access_token and client_id are required"))
		return
	}
	if err := validation.ValidateContentID(contentID); err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}
	if err := validation.ValidateClientID(clientID); err != nil {
		c.Error(errors.NewInvalidRequestError(err.Error()))
		return
	}

	req := &services.AccessRequest{
		Token:     token,
		ContentID: domain.ContentID(contentID),
		ClientID:  domain.ClientID(clientID),
		UserAgent: c.Request.UserAgent(),
		CallerIP:  c.ClientIP(),
		Headers:   c.Request.Header,
	}

	ctx, span := tracing.TraceGateDecision(c.Request.Context(), contentID, clientID)
	defer span.End()

	decision, err := h.gatekeeper.Authorize(ctx, req)
	if err != nil {
		tracing.RecordError(ctx, err)
		c.Error(errors.WrapError(err, errors.ErrCodeInternal, "admission check failed", 500))
		return
	}
	tracing.AddSpanAttributes(ctx,
		tracing.OutcomeKey.String(string(decision.Outcome)),
		tracing.UserIDKey.String(string(decision.UserID)),
	)

	switch decision.Outcome {
	case domain.OutcomeAllowed:
		// fall through to delivery
	case domain.OutcomeBlockedClient:
		c.Error(errors.NewBlockedClientError())
		return
	case domain.OutcomeSuspiciousRequest:
		c.Error(errors.NewSuspiciousRequestError())
		return
	case domain.OutcomeInvalidToken:
		c.Error(errors.NewInvalidTokenError("access token is invalid or expired"))
		return
	case domain.OutcomeStreamLimitExceeded:
		c.Error(errors.NewStreamLimitExceededError())
		return
	default:
		c.Error(errors.NewInternalError("unknown admission outcome"))
		return
	}

	defer decision.Release()

	for name, value := range decision.Headers {
		c.Header(name, value)
	}

	if err := h.delivery.Serve(c.Writer, c.Request, req.ContentID, decision.Watermark); err != nil {
		// Headers are already gone; just record the broken transport.
		h.logger.Warnw("media delivery ended with error",
			"content_id", req.ContentID,
			"client_id", req.ClientID,
			"error", err,
		)
	}
}
