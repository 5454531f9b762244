// Package persistence selects the user store backend.
package persistence

import (
	"log/slog"

	"accounts/config"
	"accounts/internal/domain/repository"
	"accounts/internal/infra/persistence/mongo"
	"accounts/internal/infra/persistence/postgres"

	"go.uber.org/fx"
)

// Params holds dependencies for the user store, injected by Fx.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewUserRepository opens only the store selected by store.driver.
func NewUserRepository(params Params) (repository.UserRepository, error) {
	switch params.Config.Store.Driver {
	case config.StoreDriverMongo:
		db, err := mongo.New(mongo.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return mongo.NewUserRepository(db, params.Config), nil
	default:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewUserRepository(db), nil
	}
}
