package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
)

type contextKey string

const callerKey contextKey = "caller"

// Claims is the verified claim set attached to inbound requests. Signature,
// issuer, audience and expiry are checked here; everything downstream
// trusts the result.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthConfig holds bearer-token validation settings.
type AuthConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

// RequireAuth enforces an HMAC-signed bearer token and attaches the caller
// identity to the request context.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := callerFromRequest(r, cfg)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			if caller == nil {
				unauthorized(w, "missing authorization header")
				return
			}
			next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuth attaches the caller identity when a bearer token is present
// and otherwise lets the request through anonymously. A malformed or
// invalid token is still rejected.
func OptionalAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := callerFromRequest(r, cfg)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			if caller != nil {
				r = r.WithContext(withCaller(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CallerFromContext returns the verified caller, if any.
func CallerFromContext(ctx context.Context) *booking.Caller {
	caller, _ := ctx.Value(callerKey).(*booking.Caller)
	return caller
}

func withCaller(ctx context.Context, caller *booking.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func callerFromRequest(r *http.Request, cfg AuthConfig) (*booking.Caller, error) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, nil
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return nil, errInvalidAuthHeader
	}
	if cfg.Secret == "" {
		return nil, errAuthDisabled
	}

	tokenString := strings.TrimPrefix(auth, "Bearer ")
	claims := &Claims{}

	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	return &booking.Caller{
		Email: claims.Email,
		Role:  booking.ParseRole(claims.Role),
	}, nil
}

var (
	errInvalidAuthHeader = authError("authorization header must use the Bearer scheme")
	errAuthDisabled      = authError("bearer auth is not configured")
	errInvalidToken      = authError("invalid token")
)

type authError string

func (e authError) Error() string { return string(e) }

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + msg + `"}}`))
}
