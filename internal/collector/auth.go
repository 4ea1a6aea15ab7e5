package collector

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/qepting91/subreddit-bot/internal/metrics"
	"golang.org/x/oauth2"
)

const maxAuthAttempts = 3

// Authenticate exchanges the credentials for a bearer token using the OAuth2
// password grant. Transport failures are retried up to three attempts in
// total; HTTP and credential errors are returned immediately.
func (rc *RedditClient) Authenticate(ctx context.Context, creds Credentials) (string, error) {
	if !creds.complete() {
		rc.logger.Error().Msg("Reddit credentials are incomplete")
		return "", &AuthError{Kind: AuthInvalidCredentials, Err: errMissingCredentials}
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  rc.tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, rc.httpClient)

	var lastErr *AuthError
	for attempt := 1; attempt <= maxAuthAttempts; attempt++ {
		tok, err := conf.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
		if err == nil {
			metrics.IncAuthAttempt(metrics.OutcomeOK)
			rc.logger.Info().Int("attempt", attempt).Msg("Reddit token retrieved successfully")
			return tok.AccessToken, nil
		}
		metrics.IncAuthAttempt(metrics.OutcomeError)

		authErr := classifyAuthError(err)
		authErr.Attempts = attempt
		if authErr.Kind != AuthNetwork {
			rc.logger.Error().Err(authErr).Str("kind", authErr.Kind.String()).Msg("Reddit authentication failed")
			return "", authErr
		}

		lastErr = authErr
		rc.logger.Warn().Err(err).
			Int("attempt", attempt).
			Int("max_attempts", maxAuthAttempts).
			Msg("Network error retrieving Reddit token")
		if ctx.Err() != nil {
			break
		}
	}

	rc.logger.Error().Err(lastErr).Msg("Max attempts reached, unable to retrieve token")
	return "", lastErr
}

func classifyAuthError(err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		switch {
		case status == http.StatusUnauthorized, retrieveErr.ErrorCode == "invalid_grant":
			return &AuthError{Kind: AuthInvalidCredentials, StatusCode: status, Detail: retrieveDetail(retrieveErr), Err: err}
		case status >= 200 && status < 300:
			return &AuthError{Kind: AuthUnknown, StatusCode: status, Detail: retrieveDetail(retrieveErr), Err: err}
		default:
			return &AuthError{Kind: AuthHTTP, StatusCode: status, Detail: retrieveDetail(retrieveErr), Err: err}
		}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &AuthError{Kind: AuthNetwork, Err: err}
	}

	return &AuthError{Kind: AuthUnknown, Err: err}
}

func retrieveDetail(e *oauth2.RetrieveError) string {
	if e.ErrorCode != "" {
		return e.ErrorCode
	}
	detail := strings.TrimSpace(string(e.Body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return detail
}
