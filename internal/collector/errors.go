package collector

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies a failed token exchange.
type AuthErrorKind int

const (
	// AuthNetwork means every attempt failed to reach the token endpoint.
	AuthNetwork AuthErrorKind = iota + 1
	// AuthInvalidCredentials means the provider rejected the credentials.
	AuthInvalidCredentials
	// AuthHTTP means the token endpoint answered with an unexpected status.
	AuthHTTP
	// AuthUnknown covers everything else, such as an unreadable token response.
	AuthUnknown
)

func (k AuthErrorKind) String() string {
	switch k {
	case AuthNetwork:
		return "network"
	case AuthInvalidCredentials:
		return "invalid_credentials"
	case AuthHTTP:
		return "http_error"
	case AuthUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("AuthErrorKind(%d)", int(k))
	}
}

// AuthError is returned by Authenticate and NewRedditClient.
type AuthError struct {
	Kind       AuthErrorKind
	StatusCode int
	Detail     string
	Attempts   int
	Err        error
}

func (e *AuthError) Error() string {
	msg := "reddit auth: " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthKind reports whether err is an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}

// FetchErrorKind classifies a failed listing fetch. Fetch errors are logged,
// never returned to callers of FetchRecentPosts.
type FetchErrorKind int

const (
	FetchNetwork FetchErrorKind = iota + 1
	FetchHTTP
	FetchDecode
	FetchCanceled
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchNetwork:
		return "network"
	case FetchHTTP:
		return "http_error"
	case FetchDecode:
		return "decode"
	case FetchCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("FetchErrorKind(%d)", int(k))
	}
}

type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reddit fetch: %s (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("reddit fetch: %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

var errMissingCredentials = errors.New("client id, client secret, username and password are all required")
