package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/api"
	"github.com/nekogravitycat/partner-booking-backend/internal/auth"
	"github.com/nekogravitycat/partner-booking-backend/internal/booking"
	"github.com/nekogravitycat/partner-booking-backend/internal/customer"
	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	Location     *time.Location
	Logger       *zap.Logger
	OperatorKey  string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	JWTManager     *auth.JWTManager
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// Customer Module
	customerRepo := customer.NewPgxRepository(cfg.DBPool)
	customerService := customer.NewService(customerRepo, passwordHasher, logger.Named("customer"))

	// Partner Module
	partnerRepo := partner.NewPgxRepository(cfg.DBPool)
	partnerService := partner.NewService(partnerRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, partnerService, booking.Options{
		Location: cfg.Location,
		Logger:   logger.Named("booking"),
	})

	router, err := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		Logger:          logger.Named("http"),
		CustomerService: customerService,
		PartnerService:  partnerService,
		BookingService:  bookingService,
		JWTManager:      jwtManager,
		OperatorKey:     cfg.OperatorKey,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Router:         router,
		JWTManager:     jwtManager,
		BookingService: bookingService,
	}, nil
}
