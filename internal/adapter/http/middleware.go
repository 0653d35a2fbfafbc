package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/interfaces"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type Middleware func(http.Handler) http.Handler

// Chain wraps h so the first middleware runs first
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware assigns the request id (reusing a caller supplied one)
// and logs every request with its duration
func LoggingMiddleware(logger logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			logger.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID)))

			logger.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(logger logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic_recovered", "Panic recovered", requestIDFrom(r.Context()), map[string]interface{}{
						"path": r.URL.Path,
					}, fmt.Errorf("%v", err))
					respondError(w, "internal server error", http.StatusInternalServerError, nil)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errNoUserClaim = errors.New("token has no user claim")

// userClaims are checked in order
var userClaims = []string{"userId", "id", "sub"}

// UserKeyFromToken extracts the user key from a bearer token. With a secret
// the HS256 signature is verified; without one the token is only decoded and
// the remote API stays the verifier.
func UserKeyFromToken(token, secret string) (string, error) {
	claims := jwt.MapClaims{}
	if secret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return "", err
		}
	} else {
		_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			return "", err
		}
	}

	for _, name := range userClaims {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v, nil
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		}
	}
	return "", errNoUserClaim
}

// sessionUserKey is the key the caller's ledgers and cache entries live
// under. Without a secret the claim is bound to a fingerprint of the token.
func sessionUserKey(token, secret string) (string, error) {
	userKey, err := UserKeyFromToken(token, secret)
	if err != nil || secret != "" {
		return userKey, err
	}
	sum := sha256.Sum256([]byte(token))
	return userKey + "~" + hex.EncodeToString(sum[:8]), nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware puts the caller's session into the request context.
// Requests without a token run as guest. An empty secret means unverified
// mode, see sessionUserKey.
func AuthMiddleware(secret string, logger logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := interfaces.Session{
				UserKey:   interfaces.GuestKey,
				RequestID: requestIDFrom(r.Context()),
			}

			if token := bearerToken(r); token != "" {
				userKey, err := sessionUserKey(token, secret)
				if err != nil {
					logger.Warn("auth_rejected", "Invalid bearer token", session.RequestID, map[string]interface{}{
						"error": err.Error(),
					})
					respondError(w, "invalid token", http.StatusUnauthorized, nil)
					return
				}
				session.UserKey = userKey
				session.Token = token
			}

			next.ServeHTTP(w, r.WithContext(interfaces.WithSession(r.Context(), session)))
		})
	}
}
