package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/technews/backend/internal/config"
	"github.com/emilythestrangee/technews/backend/internal/database"
	"github.com/emilythestrangee/technews/backend/internal/handlers"
	"github.com/emilythestrangee/technews/backend/internal/middleware"
	"github.com/emilythestrangee/technews/backend/internal/session"
	"github.com/emilythestrangee/technews/backend/internal/views"
)

type Server struct {
	cfg      *config.Config
	db       database.Service
	sessions *session.Manager
	handler  *handlers.Handler
	log      *slog.Logger
}

// New wires the stores, sessions and handlers on top of db.
func New(cfg *config.Config, db database.Service, log *slog.Logger) *Server {
	store := session.NewStore(db.GetDB(), cfg.SessionTTL, time.Now)
	codec := session.NewCodec(cfg.SessionSecret, time.Now)
	sessions := session.NewManager(store, codec, session.CookieConfig{
		Name:   cfg.SessionCookie,
		Secure: cfg.CookieSecure,
	})

	return &Server{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		handler:  handlers.NewHandler(db.GetDB(), sessions, log),
		log:      log,
	}
}

// NewServer creates and configures the HTTP server
func NewServer(cfg *config.Config, db database.Service, log *slog.Logger) *http.Server {
	s := New(cfg, db, log)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(s.log))

	r.Use(cors.New(s.corsConfig()))

	r.SetHTMLTemplate(views.Templates())
	r.Use(middleware.LoadSession(s.sessions, s.log))

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		users.GET("", s.handler.User.GetUsers)
		users.GET("/:id", s.handler.User.GetUser)
		users.POST("", s.handler.User.CreateUser)
		users.POST("/login", s.handler.Auth.Login)
		users.POST("/logout", s.handler.Auth.Logout)
		users.PUT("/:id", s.handler.User.UpdateUser)
		users.DELETE("/:id", s.handler.User.DeleteUser)

		posts := api.Group("/posts")
		posts.GET("", s.handler.Post.GetPosts)
		posts.GET("/:id", s.handler.Post.GetPost)

		comments := api.Group("/comments")
		comments.GET("", s.handler.Comment.GetComments)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/upvote", s.handler.Post.UpvotePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)

			protected.POST("/comments", s.handler.Comment.CreateComment)
			protected.DELETE("/comments/:id", s.handler.Comment.DeleteComment)
		}
	}

	r.GET("/", s.handler.Page.Home)
	r.GET("/login", s.handler.Page.Login)
	r.GET("/post/:id", s.handler.Page.SinglePost)
	r.GET("/dashboard", middleware.ViewAuthMiddleware("/login"), s.handler.Page.Dashboard)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(s.cfg.CORSOrigins) == 1 && s.cfg.CORSOrigins[0] == "*" {
		// credentials cannot be combined with a literal "*" origin
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = s.cfg.CORSOrigins
	}
	return cfg
}

func (s *Server) healthHandler(c *gin.Context) {
	stats := s.db.Health(c.Request.Context())
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}
