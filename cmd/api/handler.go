package api

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	authUsecase "github.com/linq-app/linq-backend/internal/auth/usecase"
	eventDelivery "github.com/linq-app/linq-backend/internal/event/delivery"
	eventUsecasePkg "github.com/linq-app/linq-backend/internal/event/usecase"
	nlpDelivery "github.com/linq-app/linq-backend/internal/nlp/delivery"
	nlpRepo "github.com/linq-app/linq-backend/internal/nlp/repository"
	nlpUsecasePkg "github.com/linq-app/linq-backend/internal/nlp/usecase"
	"github.com/linq-app/linq-backend/pkg/ai"
	"github.com/linq-app/linq-backend/pkg/config"
	"github.com/linq-app/linq-backend/pkg/ratelimit"
	"github.com/linq-app/linq-backend/pkg/response"
)

type Handler struct {
	authUsecase  authUsecase.AuthUsecase
	eventHandler *eventDelivery.EventHandler
	nlpHandler   *nlpDelivery.NLPHandler
	config       *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, eventUc eventUsecasePkg.EventUsecase, analysisRepo nlpRepo.AnalysisRepository, cfg *config.Config) *Handler {
	// Initialize AI parser via the provider factory
	parser, err := ai.NewEventParser(ai.Config{
		Provider:            ai.ProviderSolar,
		SolarAPIKey:         cfg.SolarAPIKey,
		SolarBaseURL:        cfg.SolarBaseURL,
		SolarModel:          cfg.SolarModel,
		Timeout:             cfg.SolarTimeout,
		TimezoneOffsetHours: cfg.TimezoneOffsetHours,
	})
	var nlpHandler *nlpDelivery.NLPHandler
	if err != nil {
		log.Printf("[WARN] AI parser disabled: %v", err)
	} else {
		parseLimiter := ratelimit.NewFixedWindow(cfg.ParseRateLimit, time.Minute)
		parseUc := nlpUsecasePkg.NewParseUsecase(parser, analysisRepo, parseLimiter, cfg.AnalysisCacheMaxAge, cfg.SolarModel)
		nlpHandler = nlpDelivery.NewNLPHandler(parseUc)
		log.Printf("[INFO] AI parser initialized with model %s", cfg.SolarModel)
	}

	writeLimiter := ratelimit.NewFixedWindow(cfg.WriteRateLimit, time.Minute)
	readLimiter := ratelimit.NewFixedWindow(cfg.ReadRateLimit, time.Minute)
	eventHandler := eventDelivery.NewEventHandler(eventUc, writeLimiter, readLimiter)

	return &Handler{
		authUsecase:  authUc,
		eventHandler: eventHandler,
		nlpHandler:   nlpHandler,
		config:       cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.Use(response.RequestID())

	SetupRoutes(r, h.authUsecase, h.eventHandler, h.nlpHandler)

	return r.Run(addr)
}
