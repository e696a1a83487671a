package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/studbook/breeding"
	"github.com/padraicbc/studbook/checkin"
	"github.com/padraicbc/studbook/config"
	"github.com/padraicbc/studbook/db"
	"github.com/padraicbc/studbook/handlers"
	"github.com/padraicbc/studbook/jobs"
	applog "github.com/padraicbc/studbook/logger"
	mw "github.com/padraicbc/studbook/middleware"
	"github.com/padraicbc/studbook/training"
)

//go:embed all:build/*
var embeddedFiles embed.FS

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	store := db.NewStore(bdb)
	h := handlers.New(handlers.Deps{
		Store:            store,
		Breeding:         breeding.New(nil),
		Training:         training.New(time.Now, nil),
		CheckIn:          checkin.New(time.Now),
		Logger:           logger,
		JWTKey:           cfg.JWTKey(),
		BreedingCooldown: cfg.BreedingCooldown,
		IsAdmin:          cfg.IsAdmin,
	})

	n, err := h.RestoreSessions(context.Background())
	if err != nil {
		logger.Fatal("restore training sessions failed", zap.Error(err))
	}
	logger.Info("training sessions restored", zap.Int("count", n))

	aging, err := jobs.NewAging(store, cfg.MaturityMonths, logger).Schedule(cfg.AgingSchedule)
	if err != nil {
		logger.Fatal("schedule aging failed", zap.Error(err))
	}
	aging.Start()
	defer aging.Stop()

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	e.POST("/api/signin", h.Signin)

	// Protected – require valid JWT in Authorization header
	api := e.Group("/api", mw.JWT(cfg.JWTKey()))
	api.POST("/password-hash", h.PasswordHash)

	api.GET("/horses", h.ListHorses)
	api.GET("/horses/:id", h.GetHorse)

	api.POST("/breeding/analyze", h.AnalyzeBreeding)
	api.POST("/breeding/breed", h.Breed)

	api.GET("/training/programs", h.TrainingPrograms)
	api.GET("/training/recommended", h.RecommendedPrograms)
	api.POST("/training/start", h.StartTraining)
	api.GET("/training/progress", h.TrainingProgress)
	api.POST("/training/complete", h.CompleteTraining)

	api.GET("/checkin", h.CheckInStatus)
	api.POST("/checkin/claim", h.ClaimCheckIn)

	// Strip the "build/" prefix so URLs work correctly
	subFS, err := fs.Sub(embeddedFiles, "build")
	if err != nil {
		logger.Fatal("open embedded build fs failed", zap.Error(err))
	}
	// Serve static files correctly using Echo's WrapHandler
	fileServer := http.FileServer(http.FS(subFS))
	e.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path

		// If request is for a static file, serve it
		if strings.Contains(path, ".") { // Matches JS, CSS, images, etc.
			http.StripPrefix("/", fileServer).ServeHTTP(c.Response(), c.Request())
			return nil
		}
		// Otherwise, serve `index.html` for client-side routing (SPA fallback)
		indexFile, err := subFS.Open("index.html")

		if err != nil {
			return c.NoContent(http.StatusNotFound)
		}
		defer indexFile.Close()

		return c.Stream(http.StatusOK, "text/html", indexFile)
	})

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
