package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/obs"
)

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
}

type SessionHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	ClickDay(c *gin.Context)
	Navigate(c *gin.Context)
	ClearDates(c *gin.Context)
	Calendar(c *gin.Context)
	SetGuests(c *gin.Context)
	Quote(c *gin.Context)
	BuildDraft(c *gin.Context)
	UpdatePayment(c *gin.Context)
	Submit(c *gin.Context)
}

type Handlers struct {
	Listing ListingHTTP
	Session SessionHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Catalog)
		api.GET("/listings/:id", h.Listing.Get)
	}
	if h.Session != nil {
		api.POST("/sessions", h.Session.Create)
		api.GET("/sessions/:id", h.Session.Get)
		api.GET("/sessions/:id/calendar", h.Session.Calendar)
		api.POST("/sessions/:id/calendar/clicks", h.Session.ClickDay)
		api.POST("/sessions/:id/calendar/navigate", h.Session.Navigate)
		api.DELETE("/sessions/:id/calendar", h.Session.ClearDates)
		api.PUT("/sessions/:id/guests", h.Session.SetGuests)
		api.GET("/sessions/:id/quote", h.Session.Quote)
		api.POST("/sessions/:id/draft", h.Session.BuildDraft)
		api.PUT("/sessions/:id/payment", h.Session.UpdatePayment)
		api.POST("/sessions/:id/submit", h.Session.Submit)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
