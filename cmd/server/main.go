package main

import (
	"log"
	"net/http"

	_ "diabeto/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"diabeto/internal/auth"
	"diabeto/internal/cache"
	"diabeto/internal/classifier"
	"diabeto/internal/config"
	"diabeto/internal/db"
	"diabeto/internal/handler"
	"diabeto/internal/model"
	"diabeto/internal/repository"
	"diabeto/internal/router"
	"diabeto/internal/service"
)

// @title DiabetoWeb API
// @version 1.0
// @description Clinical service: clinicians register patients and receive a diabetes-risk classification from a pre-trained model.
// @host localhost:8080
// @schemes http
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Doctor{},
		&model.Patient{},
		&model.PredictionLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Load the classifier once. On failure the process keeps serving with the
	// model marked unavailable; add-patient then fails closed.
	mlModel, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		log.Printf("WARNING: model load failed, predictions disabled: %v", err)
		mlModel = nil
	} else {
		log.Printf("loaded model artifact version %s", mlModel.Version())
	}

	// Initialize repositories
	doctorRepo := repository.NewDoctorRepository(gormDB)
	patientRepo := repository.NewPatientRepository(gormDB)
	predictionLogRepo := repository.NewPredictionLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	sessionStore := auth.NewSessionStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(doctorRepo, jwtService, sessionStore)
	patientService := service.NewPatientService(patientRepo, predictionLogRepo, mlModel)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, patientRepo)
	patientHandler := handler.NewPatientHandler(patientService)

	// Register routes
	router.Register(
		e,
		cfg,
		sessionStore,
		doctorRepo,
		authHandler,
		patientHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
