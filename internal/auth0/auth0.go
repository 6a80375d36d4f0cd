// Package auth0 validates Auth0-issued access tokens for the gin router.
package auth0

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	adapter "github.com/gwatts/gin-adapter"
)

var ErrNotConfigured = errors.New("auth0 domain and audience are required")

// Middleware returns a handler rejecting requests without a valid bearer
// token for audience. On success the validated claims are stored in the
// request context under jwtmiddleware.ContextKey{}.
func Middleware(domain, audience string, logger *slog.Logger) (gin.HandlerFunc, error) {
	if domain == "" || audience == "" {
		return nil, ErrNotConfigured
	}

	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("set up jwt validator: %w", err)
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.DebugContext(r.Context(), "rejected token", slog.String("error", err.Error()))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"UNAUTHORIZED","message":"Authentication required"}`))
		}),
	)

	return adapter.Wrap(mw.CheckJWT), nil
}
