package delivery

import (
	"encoding/json"
	"net/http"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"

	"go.uber.org/zap"
)

// StubDelivery stands in for the platform's media-delivery layer (encoding,
// storage, CDN). It acknowledges the handoff with a descriptor instead of
// bytes; the watermark payload is passed through for the real renderer.
type StubDelivery struct {
	logger *zap.SugaredLogger
}

func NewStubDelivery(logger *zap.SugaredLogger) ports.MediaDelivery {
	return &StubDelivery{logger: logger}
}

func (d *StubDelivery) Serve(w http.ResponseWriter, r *http.Request, contentID domain.ContentID, watermark string) error {
	if d.logger != nil {
		d.logger.Debugw("handing off to media delivery",
			"content_id", contentID,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	return json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "streaming",
		"content_id": contentID,
		"watermark":  watermark,
	})
}
