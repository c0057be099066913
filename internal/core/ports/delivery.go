package ports

import (
	"net/http"

	"mediagate/internal/core/domain"
)

// MediaDelivery is the out-of-scope delivery layer an admitted request is
// handed off to. Serve blocks until the transport ends (completion, error or
// client abort); encoding, storage and CDN concerns all live behind it.
type MediaDelivery interface {
	Serve(w http.ResponseWriter, r *http.Request, contentID domain.ContentID, watermark string) error
}
