package headercheck

import (
	"fmt"
	"net/http"
	"strings"

	"mediagate/internal/core/ports"
)

// BasicValidator rejects requests missing headers an interactive media
// client would always send. It stands in for the platform's header-sanity
// collaborator; the gatekeeper only consumes the verdict.
type BasicValidator struct {
	required []string
}

func NewBasicValidator(required []string) ports.HeaderValidator {
	return &BasicValidator{required: required}
}

func (v *BasicValidator) Validate(headers http.Header) error {
	for _, name := range v.required {
		if strings.TrimSpace(headers.Get(name)) == "" {
			return fmt.Errorf("missing required header: %s", name)
		}
	}
	return nil
}
