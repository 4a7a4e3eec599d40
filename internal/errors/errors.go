package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the social connection flows
var (
	// Configuration errors are fatal to the feature, not the process
	ErrConfiguration = errors.New("configuration error")

	// Authorization flow errors
	ErrInvalidState     = errors.New("invalid state")
	ErrProviderDenied   = errors.New("provider denied authorization")
	ErrNotAuthenticated = errors.New("not authenticated")

	// Provider errors
	ErrTokenExchangeFailed  = errors.New("token exchange failed")
	ErrTokenRefreshFailed   = errors.New("token refresh failed")
	ErrIdentityLookupFailed = errors.New("identity lookup failed")
	ErrPublishFailed        = errors.New("publish failed")

	// Token errors
	ErrReauthorizationRequired = errors.New("reauthorization required")

	// Store errors
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// General errors
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrUnsupported     = errors.New("unsupported operation")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
