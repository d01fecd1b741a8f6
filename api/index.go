package handler

import (
	"net/http"

	"haven/config"
	"haven/di"
	"haven/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()
	app.HTTP.ServeHTTP(w, r)
}
