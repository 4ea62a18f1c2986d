package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/auth"
	"github.com/nekogravitycat/partner-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/partner-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/partner-booking-backend/internal/customer"
	customerHttp "github.com/nekogravitycat/partner-booking-backend/internal/customer/http"
	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
	partnerHttp "github.com/nekogravitycat/partner-booking-backend/internal/partner/http"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/request"
)

// Write endpoints share one per-IP budget.
const (
	writesPerMinute = 60
	writeBurst      = 10
)

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction    bool
	ProdOrigins     string
	Logger          *zap.Logger
	CustomerService customer.Service
	PartnerService  partner.Service
	BookingService  booking.Service
	JWTManager      *auth.JWTManager

	// OperatorKey enables the operator status route when set.
	OperatorKey string
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) (*gin.Engine, error) {
	if err := request.RegisterValidators(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(RequestLogger(logger), gin.Recovery())

	origins := allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	if len(origins) == 0 {
		return nil, errors.New("PROD_ORIGINS must list at least one origin in production")
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", auth.OperatorHeader}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	var operatorMiddleware gin.HandlerFunc
	if cfg.OperatorKey != "" {
		operatorMiddleware = auth.OperatorKeyRequired(cfg.OperatorKey)
	}
	writeLimit, err := RateLimit(writesPerMinute, writeBurst, logger)
	if err != nil {
		return nil, err
	}

	customerHandler := customerHttp.NewHandler(cfg.CustomerService, cfg.JWTManager)
	partnerHandler := partnerHttp.NewHandler(cfg.PartnerService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	v1 := r.Group("/v1")
	{
		customerHttp.RegisterRoutes(v1.Group("", limitWrites(writeLimit)), customerHandler, authMiddleware)
		partnerHttp.RegisterRoutes(v1, partnerHandler)
		bookingHttp.RegisterRoutes(v1.Group("", limitWrites(writeLimit)), bookingHandler, authMiddleware, operatorMiddleware)
	}

	return r, nil
}

// limitWrites applies limit to every method except GET.
func limitWrites(limit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		limit(c)
	}
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if !isProduction {
		return []string{"http://localhost:5173", "http://localhost:8081"}
	}
	var origins []string
	for _, o := range strings.Split(prodOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
