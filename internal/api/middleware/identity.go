package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-HouseBooking/internal/api/handlers"
	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

// Заголовки, которые проставляет внешний слой аутентификации
const (
	HeaderActorEmail = "X-Actor-Email"
	HeaderActorRole  = "X-Actor-Role"
)

const (
	roleRequester = "requester"
	roleParty     = "party"
	roleSystem    = "system"
)

type actorKey struct{}

// PartyResolver сопоставляет email стороне
type PartyResolver interface {
	PartyByEmail(email string) (domain.Party, bool)
}

// Identity переносит уже проверенную личность из заголовков в контекст
// Подпись не проверяется: этим занимается внешний слой
func Identity(parties PartyResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := actorFromHeaders(r, parties)
			if !ok {
				handlers.RespondUnauthorized(w, "отсутствует или некорректна личность вызывающего")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

func actorFromHeaders(r *http.Request, parties PartyResolver) (domain.Actor, bool) {
	email := domain.NormalizeEmail(r.Header.Get(HeaderActorEmail))
	role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderActorRole)))

	switch role {
	case roleRequester:
		if email == "" {
			return domain.Actor{}, false
		}
		return domain.RequesterActor(email), true
	case roleParty:
		p, ok := parties.PartyByEmail(email)
		if !ok {
			return domain.Actor{}, false
		}
		return domain.PartyActor(p), true
	case roleSystem:
		return domain.SystemActor(), true
	default:
		return domain.Actor{}, false
	}
}

// WithActor кладет личность в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor личность вызывающего из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}
