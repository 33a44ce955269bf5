package routes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/member-hub/memberhub/internal/auth"
	"github.com/member-hub/memberhub/internal/config"
	"github.com/member-hub/memberhub/internal/crypto"
	"github.com/member-hub/memberhub/internal/middleware"
	"github.com/member-hub/memberhub/internal/store"
	"github.com/member-hub/memberhub/internal/users"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLog(d.Logger))

	RegisterHealthRoutes(app, d)

	var st store.Store
	if d.DB != nil {
		st = store.NewPostgres(d.DB)
	} else {
		st = store.NewMemory()
	}

	hasher := crypto.NewBcryptHasher(d.Cfg.BcryptCost)
	issuer := auth.NewIssuer([]byte(d.Cfg.JWTSecret), d.Cfg.TokenTTL)

	authSvc := auth.NewService(st, hasher, issuer)
	authHandler := auth.NewHandler(authSvc, d.Logger)
	usersSvc := users.NewService(st, hasher)
	usersHandler := users.NewHandler(usersSvc)

	api := app.Group("/api/v1")

	// Public routes. Authorization for the CRUD surface is a gateway
	// concern, not enforced here.
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit)
	RegisterAuthRoutes(api, authHandler, rateLimiter)
	RegisterUserRoutes(api, usersHandler)

	// Protected routes.
	protected := api.Group("", middleware.JWTAuth(issuer))
	protected.Get("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals(middleware.UserIDKey).(string)
		if uid == "" {
			return c.SendStatus(http.StatusUnauthorized)
		}
		ident, err := st.Identities().FindByID(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "user not found")
		}
		prof, err := st.Profiles().FindByID(c.UserContext(), ident.ProfileID)
		if err != nil {
			return fiber.NewError(http.StatusNotFound, "profile not found")
		}
		return c.JSON(fiber.Map{
			"userId":   ident.ID,
			"username": ident.Username,
			"role":     ident.Role,
			"email":    prof.Email,
			"club":     prof.Club,
		})
	})

	return nil
}
