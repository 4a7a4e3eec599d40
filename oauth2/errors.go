package oauth2

import (
	"fmt"
	"strings"
)

const maxDiagnosticBody = 1024

// ProviderError describes a provider rejecting a request. Kind is one of the sentinel
// errors from internal/errors so callers can use errors.Is.
type ProviderError struct {
	Kind        error
	StatusCode  int
	Code        string
	Description string
	Body        string
}

func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: status=%d", e.Kind, e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " error=%s", e.Code)
	}
	if e.Description != "" {
		fmt.Fprintf(&b, " description=%q", e.Description)
	}
	return b.String()
}

func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// NewProviderError builds a ProviderError from a raw response body.
func NewProviderError(kind error, status int, body []byte, fields map[string]any) *ProviderError {
	pe := &ProviderError{
		Kind:       kind,
		StatusCode: status,
		Body:       truncate(string(body), maxDiagnosticBody),
	}
	if fields != nil {
		pe.Code, pe.Description = errorFields(fields)
	}
	return pe
}

// errorFields handles both the flat RFC 6749 layout and the nested
// {"error": {"code": "...", "message": "..."}} layout some platforms use.
func errorFields(fields map[string]any) (code, description string) {
	switch e := fields["error"].(type) {
	case string:
		code = e
	case map[string]any:
		code = StringValue(e["code"])
		description = StringValue(e["message"])
	}
	if d := StringValue(fields["error_description"]); d != "" {
		description = d
	}
	return code, description
}

// hasProviderError reports a provider error embedded in an otherwise successful response.
func hasProviderError(fields map[string]any) bool {
	code, _ := errorFields(fields)
	return code != "" && code != "ok"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// ProviderErrorFromBody builds a ProviderError, decoding body when it is JSON.
func ProviderErrorFromBody(kind error, status int, body []byte) *ProviderError {
	fields, _ := decodeFields(body)
	return NewProviderError(kind, status, body, fields)
}

// CheckResponse fails with a ProviderError of the given kind when the status is not 2xx
// or the body carries a provider error. Platform API calls share this with the token endpoint.
func CheckResponse(kind error, status int, body []byte) error {
	fields, _ := decodeFields(body)
	if status < 200 || status > 299 || (fields != nil && hasProviderError(fields)) {
		return NewProviderError(kind, status, body, fields)
	}
	return nil
}
