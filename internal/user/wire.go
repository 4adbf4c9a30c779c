//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/sweet-shop/internal/user/delivery/http"
	"github.com/tair/sweet-shop/internal/user/domain"
	"github.com/tair/sweet-shop/internal/user/repository"
	"github.com/tair/sweet-shop/internal/user/usecase/command"
	"github.com/tair/sweet-shop/internal/user/usecase/query"
	"github.com/tair/sweet-shop/pkg/auth"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var UsecaseSet = wire.NewSet(
	command.NewRegisterUserHandler,
	command.NewLoginUserHandler,
	query.NewGetUserHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, jwt *auth.JWTManager) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		UsecaseSet,
		http.NewAuthMiddleware,
		http.NewUserHandler,
	)
	return nil, nil
}
