package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/auth"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/pkg/jwt"
	"github.com/shard-legends/alchemy-service/pkg/logger"
	"go.uber.org/zap"
)

// TokenValidator проверяет bearer токен игрока
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*jwt.CustomClaims, error)
}

// Auth кладет игрока из JWT в контекст запроса. Subject токена - UUID игрока.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, models.ErrorCodeMissingToken, "Missing authorization header")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeAuthError(w, models.ErrorCodeInvalidToken, "Invalid authorization header format")
				return
			}

			claims, err := validator.ValidateToken(r.Context(), tokenString)
			if err != nil {
				logger.Debug("Token validation failed",
					zap.String("error", err.Error()),
					zap.String("path", r.URL.Path),
				)
				writeAuthError(w, models.ErrorCodeInvalidToken, "Invalid token")
				return
			}

			playerID, err := uuid.Parse(claims.Subject)
			if err != nil {
				writeAuthError(w, models.ErrorCodeMissingUserID, "Token subject is not a player ID")
				return
			}

			ctx := auth.WithPlayer(r.Context(), &auth.PlayerContext{
				PlayerID:   playerID,
				TelegramID: claims.TelegramID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: code, Message: message})
}
