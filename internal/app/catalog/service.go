package catalog

import (
	"github.com/YelzhanWeb/storefront/internal/adapter/logger"
	"github.com/YelzhanWeb/storefront/internal/app/querycache"
	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Service serves restaurants, reviews and account data from the remote API
// through the query cache. Restaurant and review listings are public and
// cached once for everybody; anything personal is cached per user.
type Service struct {
	restaurants interfaces.RestaurantAPI
	reviews     interfaces.ReviewAPI
	auth        interfaces.AuthAPI
	cache       *querycache.Cache
	logger      logger.Logger
}

func NewService(restaurants interfaces.RestaurantAPI, reviews interfaces.ReviewAPI, auth interfaces.AuthAPI, cache *querycache.Cache, logger logger.Logger) *Service {
	return &Service{
		restaurants: restaurants,
		reviews:     reviews,
		auth:        auth,
		cache:       cache,
		logger:      logger,
	}
}

// publicUser owns cache entries that do not depend on the caller
const publicUser = ""
