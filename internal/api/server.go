package api

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/salem/coop-finder/internal/auth"
	"github.com/salem/coop-finder/internal/catalog"
	"github.com/salem/coop-finder/internal/db"
	"github.com/salem/coop-finder/internal/listing"
)

const (
	serviceName    = "coop-finder"
	serviceVersion = "1.2.0"
)

type Server struct {
	Store    *db.Store
	Auth     *auth.Service
	Catalog  *catalog.Catalog
	Echo     *echo.Echo
	DB       *pgxpool.Pool
	PageSize int
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, cat *catalog.Catalog) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	pageSize := listing.DefaultPageSize
	if raw := os.Getenv("PAGE_SIZE"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	s := &Server{
		DB:       pool,
		Store:    db.NewStore(pool, cat),
		Auth:     auth.NewService(pool),
		Catalog:  cat,
		Echo:     e,
		PageSize: pageSize,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/healthz", s.handleHealthz)

	api := s.Echo.Group("/api/v1")
	api.GET("/opportunities", s.handleListOpportunities)
	api.GET("/opportunities/:id", s.handleGetOpportunity)
	api.GET("/leaderboard", s.handleLeaderboard)
	api.GET("/meta", s.handleMeta)
	api.GET("/pages/:slug", s.handleGetPage)

	// Combined signup/login
	api.POST("/account", s.handleAccount)

	// Session Routes
	session := api.Group("")
	session.Use(auth.Middleware)
	session.POST("/account/logout", s.handleLogout)
	session.GET("/me", s.handleMe)
	session.PUT("/me", s.handleUpdateMe)
	session.POST("/bookmarks", s.handleAddBookmark)
	session.DELETE("/bookmarks/:opportunity_id", s.handleRemoveBookmark)
	session.GET("/bookmarks", s.handleListBookmarks)
	session.POST("/ratings", s.handleCreateRating)
	session.POST("/reports", s.handleCreateReport)
	session.POST("/submissions", s.handleCreateSubmission)
	session.GET("/submissions", s.handleMySubmissions)

	// Admin Routes (review & seed)
	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.POST("/seed", s.handleAdminSeed)
	admin.GET("/submissions", s.handleAdminListSubmissions)
	admin.POST("/submissions", s.handleAdminCreateSubmission)
	admin.POST("/submissions/:id/approve", s.handleApproveSubmission)
	admin.POST("/submissions/:id/reject", s.handleRejectSubmission)
	admin.GET("/reports", s.handleAdminListReports)
	admin.POST("/reports/:id/status", s.handleUpdateReportStatus)
}

func (s *Server) handleHealthz(c echo.Context) error {
	if err := s.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": "database unreachable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		if c.Request().Header.Get("X-Admin-Secret") == secret {
			return next(c)
		}
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			token := authHeader[7:]
			if token == secret {
				return next(c)
			}
			// A logged-in admin user's session token also works, and it
			// records who acted as reviewer.
			if userID, err := auth.ParseToken(token); err == nil {
				if ok, err := s.Auth.IsAdmin(c.Request().Context(), userID); err == nil && ok {
					c.Set(string(auth.UserIDKey), userID)
					return next(c)
				}
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

// adminUserID returns the acting admin's user id when the request carried a
// session token, or uuid.Nil for the shared secret.
func adminUserID(c echo.Context) uuid.UUID {
	id, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
