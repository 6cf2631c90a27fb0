// Package app wires configuration, storage and the domain packages into an
// HTTP server.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"edushareqa/internal/config"
	"edushareqa/internal/domain/auth"
	"edushareqa/internal/domain/course"
	"edushareqa/internal/domain/notification"
	"edushareqa/internal/domain/qa"
	"edushareqa/internal/domain/resource"
	"edushareqa/internal/domain/upload"
	"edushareqa/internal/middleware"
	jwtsvc "edushareqa/internal/pkg/jwt"
	"edushareqa/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Models lists every table the server owns, in migration order.
func Models() []any {
	models := []any{&auth.User{}}
	models = append(models, course.Models()...)
	models = append(models, &resource.Resource{}, &notification.Notification{})
	return append(models, qa.Models()...)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

type Server struct {
	cfg        *config.Config
	log        *zap.Logger
	engine     *gin.Engine
	httpServer *http.Server
	Storage    *storage.Storage
}

// New builds the router. The database must already be migrated.
func New(cfg *config.Config, log *zap.Logger, db *gorm.DB) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.New(StorageConfig(cfg.Storage), log)
	if err != nil {
		return nil, err
	}
	origins := cfg.CORS.Origins()
	jwt := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.AccessTTL)

	users := auth.NewUserRepository(db)
	authService := auth.NewService(users, jwt, log)
	courseService := course.NewService(course.NewRepository(db), authService, log)

	hub := notification.NewHub(origins, log)
	notificationService := notification.NewService(notification.NewRepository(db), hub, log)

	resourceService := resource.NewService(resource.NewRepository(db), store, courseService, log)
	qaService := qa.NewService(db, store, courseService, resourceService, notificationService, log)

	engine := gin.New()
	engine.MaxMultipartMemory = 8 << 20
	engine.Use(middleware.RequestID(), middleware.RequestLogger(log), middleware.CORS(origins),
		middleware.BodyLimit(cfg.Storage.RequestLimit()))

	engine.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": gin.H{"code": "UNHEALTHY", "message": err.Error()}})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})

	api := engine.Group(cfg.Server.BasePath)
	authHandler := auth.NewHandler(authService)
	authHandler.RegisterPublicRoutes(api)

	protected := api.Group("", middleware.JWTAuth(jwt))
	authHandler.RegisterProtectedRoutes(protected)
	course.RegisterRoutes(protected, course.NewHandler(courseService))
	resource.RegisterRoutes(protected, resource.NewHandler(resourceService))
	qa.RegisterRoutes(protected, qa.NewHandler(qaService))
	notification.RegisterRoutes(protected, notification.NewHandler(notificationService, hub))
	upload.RegisterRoutes(protected, upload.NewHandler(store, log))

	return &Server{
		cfg:    cfg,
		log:    log,
		engine: engine,
		httpServer: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Storage: store,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("http server stopped")
	return nil
}

// StorageConfig maps the storage settings onto the file store layout.
func StorageConfig(c config.StorageConfig) storage.Config {
	return storage.Config{
		UploadDir: c.UploadDir,
		Dirs: map[storage.Category]string{
			storage.CategoryResources:           c.ResourcesDir,
			storage.CategoryQuestionAttachments: c.QuestionAttachmentsDir,
			storage.CategoryAnswerAttachments:   c.AnswerAttachmentsDir,
		},
		MaxFileSize: c.MaxUploadSize,
	}
}
