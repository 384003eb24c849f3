package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/MarcoBenedictus/GameSuite/internal/booking"
	"github.com/MarcoBenedictus/GameSuite/internal/chat"
	"github.com/MarcoBenedictus/GameSuite/internal/config"
	"github.com/MarcoBenedictus/GameSuite/internal/database"
	"github.com/MarcoBenedictus/GameSuite/internal/handler"
	"github.com/MarcoBenedictus/GameSuite/internal/middleware"
	"github.com/MarcoBenedictus/GameSuite/internal/queue"
	"github.com/MarcoBenedictus/GameSuite/internal/repository"
	"github.com/MarcoBenedictus/GameSuite/internal/router"
	"github.com/MarcoBenedictus/GameSuite/internal/service"
)

func main() {
	_ = godotenv.Load() // best effort; real deployments set env directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reservations := repository.NewReservationRepo(db)
	memberships := repository.NewMembershipRepo(db)
	messages := repository.NewChatRepo(db)

	svc := booking.NewService(reservations, memberships, time.Now().UnixNano())

	publisher := service.NewQueuePublisher(queue.BrokerURL())
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation-consumer: %v", err)
		}
	}()

	hub := chat.NewHub(messages)
	go hub.Run()
	ai := chat.NewAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	if ai == nil {
		log.Printf("assistant disabled: OPENAI_API_KEY not set")
	}

	e := echo.New()
	e.HideBanner = true

	// Redis is optional: without it the limiter and cache pass requests
	// straight through.
	if rdb := config.NewRedisClient(); rdb != nil {
		e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
		e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterReservations(e, handler.NewReservationHandler(svc, users, reservations, publisher), cfg.JWTSecret)
	router.RegisterMemberships(e, handler.NewMembershipHandler(users, memberships), cfg.JWTSecret)
	router.RegisterChat(e, handler.NewChatHandler(messages, hub, ai), cfg.JWTSecret)
	router.RegisterAdmin(e, handler.NewAdminHandler(svc, reservations, memberships, users, messages), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
