package main

import (
	"fmt"
	"os"

	"formbuilder/internal/app/config"
	"formbuilder/internal/app/middleware"
	"formbuilder/internal/app/role"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// Выпускает JWT оператора для защищённых маршрутов API
func main() {
	roleName := pflag.StringP("role", "r", "operator", "роль: viewer, operator или admin")
	ttl := pflag.DurationP("ttl", "t", 0, "срок действия токена (0 - из конфига)")
	pflag.Parse()

	r, ok := role.Parse(*roleName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *roleName)
		os.Exit(2)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	if cfg.JWT.Token == "" {
		logrus.Fatal("JWT_SECRET is empty")
	}

	token, err := middleware.IssueJWT(cfg.JWT, r, *ttl)
	if err != nil {
		logrus.Fatal(err)
	}
	fmt.Println(token)
}
