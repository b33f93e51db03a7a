package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Version info (set during build)
var (
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "pfdraw-server.yaml", "path to server config")
	flag.Parse()

	cfg, err := LoadServerConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	store := NewMemoryStore()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			return c.Request().URL.Path == "/api/health"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	RegisterRoutes(e,
		NewHealthHandler(Version),
		NewComponentHandler(cfg.Storage.AssetDir),
		NewProjectHandler(store),
	)

	if err := e.Start(cfg.Addr()); err != nil {
		e.Logger.Fatal(err)
	}
}
