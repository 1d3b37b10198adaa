package main

import (
	"context"
	"log/slog"
	"os"

	"careauth/config"
	"careauth/internal/delivery"
	"careauth/internal/delivery/api"
	"careauth/internal/delivery/api/router/handler"
	"careauth/internal/domain/repository"
	"careauth/internal/domain/service"
	"careauth/internal/domain/validation"
	"careauth/internal/infra/auth"
	logs "careauth/internal/infra/log"
	"careauth/internal/infra/persistence/memory"
	"careauth/internal/infra/persistence/postgres"
	"careauth/internal/infra/pubsub"
	"careauth/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			newAccountRepository,
		),
	)
}

// newAccountRepository selects the account store named by storage.driver
func newAccountRepository(params postgres.Params) (repository.AccountRepository, error) {
	if params.Config.Storage.Driver == config.StorageDriverMemory {
		params.Logger.Warn("Using in-memory account storage; accounts are lost on restart")

		return memory.NewAccountRepository(), nil
	}

	db, err := postgres.New(params)
	if err != nil {
		return nil, err
	}

	return postgres.NewAccountRepository(db), nil
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			newPasswordHasher,
			validation.NewCredentialValidator,
			pubsub.NewEventPublisher,
		),
	)
}

// newPasswordHasher creates the bcrypt hasher from the auth section
func newPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.MaxConcurrentHashes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create password hasher")
	}

	return hasher, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
