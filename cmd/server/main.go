package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/novawear/internal/config"
	"github.com/example/novawear/internal/database"
	"github.com/example/novawear/internal/handlers"
	"github.com/example/novawear/internal/routes"
	"github.com/example/novawear/internal/services"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)
	rdb := database.ConnectRedis(cfg.RedisURL)
	mailer := services.NewSMTPMailer(cfg)

	app := fiber.New(fiber.Config{
		AppName:      "NovaWear Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, rdb, mailer, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
