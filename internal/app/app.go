package app

import (
	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/kafka"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
	"github.com/prairiegroup/storefront/internal/server"
	"github.com/prairiegroup/storefront/internal/usecase"
	"github.com/prairiegroup/storefront/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded",
		"endpoint", conf.Storefront.GraphQLEndpoint(),
		"session_backend", conf.Session.Backend,
		"kafka_enabled", conf.Kafka.Enabled,
	)
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			storefront.NewClient,
			storefront.NewCatalogRepository,
			storefront.NewCustomerRepository,

			newSessionStore,
			kafka.NewPublisher,

			usecase.NewCatalogUsecase,
			usecase.NewAccountUsecase,

			server.NewRenderer,
			server.NewController,
			server.NewEcho,
		),
		fx.Supply(conf),
		fx.Invoke(funcs...),
	)
}
