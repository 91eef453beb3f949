package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
)

type CalendarHTTP interface {
	Calendar(c *gin.Context)
	SetAvailability(c *gin.Context)
	CreatePriceRule(c *gin.Context)
	ListPriceRules(c *gin.Context)
	DeletePriceRule(c *gin.Context)
}

type ListingHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Overview(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	ToggleActive(c *gin.Context)
	Delete(c *gin.Context)
	Verify(c *gin.Context)
	UploadPhoto(c *gin.Context)
	OwnerList(c *gin.Context)
	OwnerSummary(c *gin.Context)
}

type BookingHTTP interface {
	Create(c *gin.Context)
	Decide(c *gin.Context)
	OwnerList(c *gin.Context)
	RenterList(c *gin.Context)
	PendingCount(c *gin.Context)
}

type ReviewHTTP interface {
	Submit(c *gin.Context)
	List(c *gin.Context)
	Summary(c *gin.Context)
}

type UserHTTP interface {
	Profile(c *gin.Context)
	SetRole(c *gin.Context)
}

type AuthHTTP interface {
	OpenSession(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type Handlers struct {
	Calendar       CalendarHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	Review         ReviewHTTP
	User           UserHTTP
	Auth           AuthHTTP
	AuthMiddleware gin.HandlerFunc
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
	router.Use(cors.New(corsConfig(cfg)))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")
	if h.Calendar != nil {
		api.GET("/calendar_data/:listing_id", h.Calendar.Calendar)
		api.POST("/owner/set_availability", h.Calendar.SetAvailability)
		api.POST("/owner/price_rule", h.Calendar.CreatePriceRule)
	}

	v1 := router.Group("/api/v1")
	if h.Auth != nil {
		v1.POST("/auth/session", h.Auth.OpenSession)
		v1.POST("/auth/logout", h.Auth.Logout)
		v1.GET("/auth/me", h.Auth.Me)
	}
	if h.Listing != nil {
		v1.GET("/listings", h.Listing.Catalog)
		v1.GET("/listings/:id", h.Listing.Get)
		v1.GET("/listings/:id/overview", h.Listing.Overview)
		ownerGroup := v1.Group("/owner/listings")
		ownerGroup.GET("", h.Listing.OwnerList)
		ownerGroup.GET("/summary", h.Listing.OwnerSummary)
		ownerGroup.POST("", h.Listing.Create)
		ownerGroup.PATCH("/:id", h.Listing.Update)
		ownerGroup.POST("/:id/toggle", h.Listing.ToggleActive)
		ownerGroup.DELETE("/:id", h.Listing.Delete)
		ownerGroup.POST("/:id/photos", h.Listing.UploadPhoto)
		v1.POST("/admin/listings/:id/verify", h.Listing.Verify)
	}
	if h.Calendar != nil {
		v1.GET("/owner/listings/:id/price_rules", h.Calendar.ListPriceRules)
		v1.DELETE("/owner/price_rules/:rule_id", h.Calendar.DeletePriceRule)
	}
	if h.Booking != nil {
		v1.POST("/bookings", h.Booking.Create)
		v1.POST("/bookings/:id/decide", h.Booking.Decide)
		v1.GET("/bookings/my", h.Booking.RenterList)
		v1.GET("/owner/bookings", h.Booking.OwnerList)
		v1.GET("/owner/bookings/pending_count", h.Booking.PendingCount)
	}
	if h.Review != nil {
		v1.POST("/reviews", h.Review.Submit)
		v1.GET("/listings/:id/reviews", h.Review.List)
		v1.GET("/listings/:id/rating", h.Review.Summary)
	}
	if h.User != nil {
		v1.GET("/users/me", h.User.Profile)
		v1.POST("/admin/users/:id/role", h.User.SetRole)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func corsConfig(cfg config.Config) cors.Config {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
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
