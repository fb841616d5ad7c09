//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"washbay/config"
	"washbay/infras/kafka"
	"washbay/infras/otel"
	"washbay/infras/postgres"
	"washbay/infras/redis"
	"washbay/infras/s3"
	auditService "washbay/internal/domains/audit/service"
	bookingRepository "washbay/internal/domains/booking/repository"
	bookingService "washbay/internal/domains/booking/service"
	notificationService "washbay/internal/domains/notification/service"
	resourceRepository "washbay/internal/domains/resource/repository"
	resourceService "washbay/internal/domains/resource/service"
	"washbay/internal/domains/schedule/coordinator"
	bookingHandler "washbay/internal/handlers/booking"
	resourceHandler "washbay/internal/handlers/resource"
	"washbay/shared/cache"
	"washbay/transport/event"
	"washbay/transport/http"
	"washbay/transport/http/middleware"
	"washbay/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	provideLocker,
)

var resourceDomain = wire.NewSet(
	resourceRepository.New,
	resourceService.New,
)

var scheduleDomain = wire.NewSet(
	coordinator.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var eventDomains = wire.NewSet(
	notificationService.New,
	auditService.New,
)

var domains = wire.NewSet(
	resourceDomain,
	scheduleDomain,
	bookingDomain,
	eventDomains,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	resourceHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		event.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
