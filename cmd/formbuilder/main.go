package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"formbuilder/internal/api"

	"github.com/sirupsen/logrus"
)

// @title Form Builder API
// @version 1.0
// @description Конструктор форм: разделы конфигурации и их спецификации с ценами
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logrus.Info("App start")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.StartServer(ctx); err != nil {
		logrus.Fatal(err)
	}

	logrus.Info("App terminated")
}
