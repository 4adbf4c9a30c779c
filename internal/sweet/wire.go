//go:build wireinject
// +build wireinject

package sweet

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/sweet-shop/internal/sweet/delivery/http"
	"github.com/tair/sweet-shop/internal/sweet/domain"
	"github.com/tair/sweet-shop/internal/sweet/repository"
	"github.com/tair/sweet-shop/internal/sweet/usecase/command"
	"github.com/tair/sweet-shop/internal/sweet/usecase/query"
	"github.com/tair/sweet-shop/kafka"
	"github.com/tair/sweet-shop/pkg/auth"
)

// ProvideSweetRepository provides the traced sweet repository
func ProvideSweetRepository(db *gorm.DB) domain.SweetRepository {
	return repository.NewTracingSweetRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSweetRepository,
)

var UsecaseSet = wire.NewSet(
	command.NewCreateSweetHandler,
	command.NewUpdateSweetHandler,
	command.NewDeleteSweetHandler,
	command.NewPurchaseSweetHandler,
	command.NewRestockSweetHandler,
	command.NewReleaseSweetHandler,
	query.NewGetSweetHandler,
	query.NewListSweetsHandler,
	query.NewSearchSweetsHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, jwt *auth.JWTManager, publisher *kafka.Publisher) (*http.SweetHandler, error) {
	wire.Build(
		RepositorySet,
		UsecaseSet,
		http.NewAuthMiddleware,
		http.NewSweetHandler,
	)
	return nil, nil
}
