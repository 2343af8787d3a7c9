// internal/httpserver/auth.go
//
// Player identity on requests.
// Identity is owned by the chat platform; it mints HS256 tokens carrying the
// stable player id ("sub") and the player's role ("role"). The server only
// verifies them and mirrors the role into the player store, because the
// best-beginner award reads it.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Player is the authenticated caller.
type Player struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

type ctxPlayerKey struct{}

// SignToken issues a token for a player. ttl <= 0 issues a token without expiry.
func SignToken(secret []byte, id, role string, ttl time.Duration) (string, error) {
	if id == "" {
		return "", errors.New("empty player id")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": id,
		"iat": now.Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// parseToken validates tokenStr and extracts the player.
func parseToken(secret []byte, tokenStr string) (*Player, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}
	id, _ := claims["sub"].(string)
	if id == "" {
		return nil, errors.New("token without subject")
	}
	role, _ := claims["role"].(string)
	return &Player{ID: id, Role: role}, nil
}

func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireAuth rejects requests without a valid bearer token.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearer(r)
			if tokenStr == "" {
				jsonError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			p, err := parseToken(s.secret, tokenStr)
			if err != nil {
				jsonError(w, http.StatusUnauthorized, "invalid_token")
				return
			}
			if p.Role != "" {
				if err := s.players.SetRole(r.Context(), p.ID, p.Role); err != nil {
					log.Warn().Err(err).Str("player", p.ID).Msg("mirror role")
				}
			}
			ctx := context.WithValue(r.Context(), ctxPlayerKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentPlayer returns the caller placed in the context by requireAuth.
func currentPlayer(r *http.Request) *Player {
	p, _ := r.Context().Value(ctxPlayerKey{}).(*Player)
	return p
}
