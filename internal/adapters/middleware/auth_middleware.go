package middleware

import (
	"context"
	"crypto/rsa"
	"log"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
)

type AuthMiddleware struct {
	publicKey *rsa.PublicKey
}

func NewAuthMiddleware(publicKey *rsa.PublicKey) *AuthMiddleware {
	return &AuthMiddleware{
		publicKey: publicKey,
	}
}

type contextKey string

const identityKey contextKey = "identity"

// IdentityFrom extracts the authenticated identity stored by RequireAuth.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity returns ctx carrying the given identity, as RequireAuth
// would have stored it.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// RequireAuth validates the bearer token and puts the caller's identity on
// the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

// RequireRole additionally demands that the caller holds at least one of
// the given roles. This is the request-level equivalent of the dashboard
// redirect guards.
func (m *AuthMiddleware) RequireRole(roles []domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		allowed := false
		for _, required := range roles {
			for _, have := range identity.Roles {
				if have == required {
					allowed = true
					break
				}
			}
		}
		if !allowed {
			log.Printf("Role mismatch: required one of %v, got %v", roles, identity.Roles)
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "missing authorization header", http.StatusUnauthorized)
		return domain.Identity{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "invalid authorization header", http.StatusUnauthorized)
		return domain.Identity{}, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.publicKey, nil
	})
	if err != nil || !token.Valid {
		log.Printf("Token parse error: %v", err)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return domain.Identity{}, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		http.Error(w, "invalid token claims", http.StatusUnauthorized)
		return domain.Identity{}, false
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		http.Error(w, "invalid token: missing user ID", http.StatusUnauthorized)
		return domain.Identity{}, false
	}

	email, _ := claims["email"].(string)

	var roles []domain.Role
	if raw, ok := claims["roles"].([]any); ok {
		for _, value := range raw {
			if s, ok := value.(string); ok {
				roles = append(roles, domain.Role(s))
			}
		}
	}

	return domain.Identity{UserID: userID, Email: email, Roles: roles}, true
}
