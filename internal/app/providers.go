package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/repo/mongodb"
	"github.com/prairiegroup/storefront/internal/session"
	"go.uber.org/fx"
)

// newSessionStore picks the session backend. The mongo backend owns its
// connection and closes it when the app stops.
func newSessionStore(lc fx.Lifecycle, conf *config.Config) (session.Store, error) {
	if conf.Session.Backend != config.SessionBackendMongo {
		return session.NewCookieStore(conf)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := mongodb.NewConnection(ctx, conf.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	repo := mongodb.NewSessionRepository(db)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.EnsureIndexes(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})
	return session.NewMongoStore(conf, repo), nil
}
