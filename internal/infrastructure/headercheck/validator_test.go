package headercheck

import (
	"net/http"
	"testing"
)

func TestBasicValidator(t *testing.T) {
	v := NewBasicValidator([]string{"User-Agent", "Accept"})

	tests := []struct {
		name    string
		headers map[string]string
		wantErr bool
	}{
		{"all present", map[string]string{"User-Agent": "Mozilla/5.0", "Accept": "video/mp4"}, false},
		{"missing accept", map[string]string{"User-Agent": "Mozilla/5.0"}, true},
		{"missing user agent", map[string]string{"Accept": "video/mp4"}, true},
		{"blank value", map[string]string{"User-Agent": "   ", "Accept": "video/mp4"}, true},
		{"no headers", map[string]string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for name, value := range tt.headers {
				h.Set(name, value)
			}
			err := v.Validate(h)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBasicValidator_NoRequiredHeaders(t *testing.T) {
	v := NewBasicValidator(nil)
	if err := v.Validate(http.Header{}); err != nil {
		t.Errorf("Validate() with no required headers should pass, got: %v", err)
	}
}
