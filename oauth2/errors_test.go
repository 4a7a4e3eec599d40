package oauth2_test

import (
	"net/http"
	"testing"

	apperrors "github.com/jrsteele09/go-social-connect/internal/errors"
	"github.com/jrsteele09/go-social-connect/oauth2"
	"github.com/stretchr/testify/require"
)

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		code    string
	}{
		{"ok", http.StatusOK, `{"data":{}}`, false, ""},
		{"ok with tiktok ok code", http.StatusOK, `{"data":{},"error":{"code":"ok","message":""}}`, false, ""},
		{"embedded error", http.StatusOK, `{"error":{"code":"scope_not_authorized","message":"no"}}`, true, "scope_not_authorized"},
		{"non 2xx json", http.StatusUnauthorized, `{"error":"invalid_token"}`, true, "invalid_token"},
		{"non 2xx text", http.StatusBadGateway, `upstream down`, true, ""},
		{"non json 2xx", http.StatusOK, `plain`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := oauth2.CheckResponse(apperrors.ErrIdentityLookupFailed, tt.status, []byte(tt.body))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, apperrors.ErrIdentityLookupFailed)
			var pe *oauth2.ProviderError
			require.ErrorAs(t, err, &pe)
			require.Equal(t, tt.status, pe.StatusCode)
			require.Equal(t, tt.code, pe.Code)
			require.Equal(t, tt.body, pe.Body)
		})
	}
}

func TestProviderErrorMessage(t *testing.T) {
	pe := oauth2.ProviderErrorFromBody(apperrors.ErrTokenExchangeFailed, http.StatusBadRequest,
		[]byte(`{"error":"invalid_request","error_description":"bad redirect"}`))
	require.Equal(t, `token exchange failed: status=400 error=invalid_request description="bad redirect"`, pe.Error())
}
