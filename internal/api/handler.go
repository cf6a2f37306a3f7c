package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ambidream/internal/db"
	"ambidream/internal/services"
)

type Handler struct {
	repositories *db.Repositories
	authService  *services.AuthService
	sessions     *services.SessionService
	secretKey    []byte
	location     *time.Location
	validate     *validator.Validate
	logger       *zap.SugaredLogger
	syncs        services.SyncEnqueuer
}

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, syncs services.SyncEnqueuer, logger *zap.SugaredLogger) *Handler {
	if location == nil {
		location = time.UTC
	}
	repositories := db.NewRepositories(database)
	return &Handler{
		repositories: repositories,
		authService:  services.NewAuthService(repositories.Users),
		sessions:     services.NewSessionService(repositories.Sessions, repositories.Profiles, syncs, location),
		secretKey:    []byte(secretKey),
		location:     location,
		validate:     validator.New(),
		logger:       logger,
		syncs:        syncs,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
