package main

import (
	"log"

	api "github.com/linq-app/linq-backend/cmd/api"
	authdomain "github.com/linq-app/linq-backend/internal/auth/domain"
	authRepo "github.com/linq-app/linq-backend/internal/auth/repository"
	authUsecase "github.com/linq-app/linq-backend/internal/auth/usecase"
	eventdomain "github.com/linq-app/linq-backend/internal/event/domain"
	eventRepo "github.com/linq-app/linq-backend/internal/event/repository"
	eventUsecase "github.com/linq-app/linq-backend/internal/event/usecase"
	nlpdomain "github.com/linq-app/linq-backend/internal/nlp/domain"
	nlpRepo "github.com/linq-app/linq-backend/internal/nlp/repository"
	nlpUsecase "github.com/linq-app/linq-backend/internal/nlp/usecase"
	"github.com/linq-app/linq-backend/pkg/config"
	"github.com/linq-app/linq-backend/pkg/database"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &eventdomain.Event{}, &nlpdomain.Analysis{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	eventRepository := eventRepo.NewEventRepository(db)
	analysisRepository := nlpRepo.NewGormAnalysisRepository(db)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	eventUsecaseInstance := eventUsecase.NewEventUsecase(eventRepository)

	// Start the analysis retention janitor
	janitor := nlpUsecase.NewRetentionJanitor(analysisRepository, cfg.AnalysisRetention)
	if err := janitor.Start(); err != nil {
		log.Printf("[ERROR] Failed to start retention janitor: %v", err)
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, eventUsecaseInstance, analysisRepository, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		janitor.Stop()
		log.Fatal("Failed to start server:", err)
	}
}
