package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"guardhouse/internal/backend"
	"guardhouse/internal/health"
	"guardhouse/internal/querycache"
	"guardhouse/internal/repo"
	"guardhouse/internal/secrets"
	"guardhouse/internal/session"
)

// newSessionStore: без БД сессия живёт в памяти, а с БД в session_records
// с зашифрованными токенами.
func newSessionStore(db *gorm.DB, secret string) (session.Store, error) {
	if db == nil {
		return session.NewMemoryStore(), nil
	}
	sealer, err := secrets.NewSealer(secret)
	if err != nil {
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	return repo.NewSessionStore(db, sealer), nil
}

// clearOnUserChange: данные одного пользователя не должны быть видны другому,
// при выходе или смене пользователя кэш сбрасывается целиком.
func clearOnUserChange(cache *querycache.Cache, log *logrus.Entry) func(prev, next *session.Session) {
	return func(prev, next *session.Session) {
		if prev == nil {
			return
		}
		if next != nil && next.Username == prev.Username && next.UserEmail == prev.UserEmail {
			return
		}
		cache.Clear()
		log.WithField("user", prev.Username).Info("query cache cleared")
	}
}

func readinessChecks(db *gorm.DB, api *backend.Client) map[string]health.Check {
	checks := map[string]health.Check{
		"backend": func(ctx context.Context) error { return api.Ping(ctx) },
	}
	if db != nil {
		checks["database"] = health.DBCheck(db)
	}
	return checks
}
