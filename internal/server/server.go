package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
	"github.com/emilythestrangee/blogicum/backend/internal/config"
	"github.com/emilythestrangee/blogicum/backend/internal/database"
	"github.com/emilythestrangee/blogicum/backend/internal/handlers"
	"github.com/emilythestrangee/blogicum/backend/internal/metrics"
	"github.com/emilythestrangee/blogicum/backend/internal/middleware"
	"github.com/emilythestrangee/blogicum/backend/internal/notify"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	// DB backs /health. It may be nil when Store is not a database.
	DB         database.Service
	Store      database.Store
	Notifier   notify.Notifier
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics
	// Limiter throttles /api/auth. One is built from cfg when nil.
	Limiter    *middleware.RateLimiter
	Log        *logrus.Logger
	Now        func() time.Time
}

type Server struct {
	cfg     *config.Config
	db      database.Service
	store   database.Store
	handler *handlers.Handler
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
	limiter *middleware.RateLimiter
	log     *logrus.Logger
}

// New wires the handlers for cfg and d.
func New(cfg *config.Config, d Deps) (*Server, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Limiter == nil {
		d.Limiter = middleware.NewRateLimiter(cfg.Auth.RateLimit, cfg.Auth.RateBurst, d.Log)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	handler := handlers.NewHandler(handlers.Deps{
		Store:      d.Store,
		Tokens:     tokens,
		Notifier:   d.Notifier,
		Dispatcher: d.Dispatcher,
		Metrics:    d.Metrics,
		Log:        d.Log,
		MailFrom:   cfg.Mail.From,
		MediaDir:   cfg.MediaDir,
		Now:        d.Now,
	})

	return &Server{
		cfg:     cfg,
		db:      d.DB,
		store:   d.Store,
		handler: handler,
		tokens:  tokens,
		metrics: d.Metrics,
		limiter: d.Limiter,
		log:     d.Log,
	}, nil
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config, d Deps) (*http.Server, error) {
	s, err := New(cfg, d)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.AccessLog(s.log),
		gin.Recovery(),
		s.metrics.Middleware(),
	)

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.Authenticate(s.tokens, s.log))

	// Health check endpoint
	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.Static(handlers.MediaURL, s.cfg.MediaDir)

	requireAuth := middleware.RequireAuth(handlers.LoginPath)
	postAuthor := handlers.RequirePostAuthor(s.store, s.log)
	commentAuthor := handlers.RequireCommentAuthor(s.store, s.log)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(s.limiter.Handler())
		{
			authGroup.POST("/register", s.handler.Auth.Register)
			authGroup.GET("/login", s.handler.Auth.LoginPage)
			authGroup.POST("/login", s.handler.Auth.Login)
			authGroup.POST("/logout", s.handler.Auth.Logout)
			authGroup.GET("/me", requireAuth, s.handler.Auth.GetMe)
		}

		// Listings and detail (public reads)
		api.GET("/posts", s.handler.Post.GetPosts)
		api.GET("/posts/:id", s.handler.Post.GetPost)
		api.GET("/category/:slug", s.handler.Category.GetCategoryPosts)
		api.GET("/categories", s.handler.Category.ListCategories)
		api.GET("/locations", s.handler.Category.ListLocations)
		api.GET("/profile/:username", s.handler.User.GetProfile)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(requireAuth)
		{
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.GET("/posts/:id/edit", postAuthor, s.handler.Post.EditPostForm)
			protected.PUT("/posts/:id", postAuthor, s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", postAuthor, s.handler.Post.DeletePost)

			protected.POST("/posts/:id/comments", s.handler.Comment.CreateComment)
			protected.GET("/posts/:id/comments/:commentId", commentAuthor, s.handler.Comment.EditCommentForm)
			protected.PUT("/posts/:id/comments/:commentId", commentAuthor, s.handler.Comment.UpdateComment)
			protected.DELETE("/posts/:id/comments/:commentId", commentAuthor, s.handler.Comment.DeleteComment)

			protected.GET("/profile", s.handler.User.EditProfileForm)
			protected.PUT("/profile", s.handler.User.EditProfile)
		}
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	stats := s.db.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
