// Package providers contains one adapter per external AI capability.
// Each adapter builds the provider-specific request, authenticates it,
// and parses the provider-specific response into a normalized result.
package providers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ProviderError is a provider-reported failure: a non-2xx HTTP status with
// the response body captured as text for diagnostics.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Provider, e.StatusCode, e.Body)
}

func newProviderError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &ProviderError{
		Provider:   provider,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
