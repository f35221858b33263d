package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/TTA-ReservationService/internal/api/handlers"
	"github.com/m04kA/TTA-ReservationService/internal/domain"
)

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует заголовок X-User-ID"
	msgInvalidUserID = "некорректный заголовок X-User-ID"
	msgInvalidRole   = "некорректный заголовок X-User-Role"
)

type actorContextKey struct{}

// Auth извлекает действующего пользователя из заголовков запроса и кладет
// его в контекст. Сервис доверяет заголовкам: аутентификацию выполняет
// внешний шлюз, здесь только связывание запроса с сессией
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(headerUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUserID)
			return
		}

		role := domain.RoleUser
		if rawRole := r.Header.Get(headerUserRole); rawRole != "" {
			role = domain.Role(rawRole)
			if role != domain.RoleUser && role != domain.RoleAdmin {
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}
		}

		actor := domain.Actor{UserID: userID, Role: role}
		ctx := context.WithValue(r.Context(), actorContextKey{}, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext возвращает действующего пользователя из контекста запроса
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}
