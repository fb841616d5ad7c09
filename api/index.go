package handler

import (
	"net/http"
	"sync"

	"washbay/config"
	"washbay/di"
	"washbay/shared/logger"
)

var (
	app  *di.App
	once sync.Once
)

// Handler serves the API as a single serverless function. Event consumption is not started here.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		app = di.InitializeApp()
	})

	app.HTTP.Handler().ServeHTTP(w, r)
}
