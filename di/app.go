package di

import (
	goRedis "github.com/redis/go-redis/v9"

	"washbay/infras/otel"
	notificationService "washbay/internal/domains/notification/service"
	"washbay/shared/lock"
	"washbay/transport/event"
	"washbay/transport/http"
)

// App bundles the long running servers of the process.
type App struct {
	HTTP     *http.HTTP
	Event    *event.Event
	Notifier notificationService.Notifier
	Tracer   otel.Otel
}

func provideLocker(client *goRedis.Client, ot otel.Otel) lock.Locker {
	return lock.NewRedisLocker(client, ot)
}
