package ports

import (
	"context"
	"net/http"

	"mediagate/internal/core/domain"
)

// HeaderValidator decides whether a request carries the headers an
// interactive media client would always send. External collaborator; the
// gatekeeper only consumes the verdict.
type HeaderValidator interface {
	Validate(headers http.Header) error
}

// EntitlementChecker answers whether a user may access a content item
// (purchase, subscription, ownership). Consulted before token issuance;
// the decision itself is computed outside this core.
type EntitlementChecker interface {
	Entitled(ctx context.Context, userID domain.UserID, contentID domain.ContentID) (bool, error)
}
