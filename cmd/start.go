package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"peer-feedback/core/loader"
	"peer-feedback/core/logger"
	"peer-feedback/core/metrics"
	"peer-feedback/core/middleware/auth"
	"peer-feedback/core/middleware/rayid"
	"peer-feedback/core/server"
	"peer-feedback/feature/feedback"
	"peer-feedback/feature/identity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "peer-feedback/docs/swagger"
)

// @title Peer Feedback API
// @version 1.0
// @description Feedback requests and identity provider webhooks.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the peer feedback server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := loadRuntime()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		arc, err := rt.openArchive(ctx)
		cancel()
		if err != nil {
			logg.Fatal("Failed to open event archive", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimitBytes,
		})

		var rec *metrics.Recorder
		if rt.cfg.Metrics.Enabled {
			rec = metrics.New()
		}

		mgr := loader.NewManager()
		identityFeature, err := identity.NewFeature(rt.db, arc, rec, logg, rt.cfg.Identity)
		if err != nil {
			logg.Fatal("Failed to create identity feature", zap.Error(err))
		}
		mgr.Register(identityFeature)
		mgr.Register(feedback.NewFeature(rt.db, logg))

		// RayID first so that every log line can be traced.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				l.Error("Request error", append(fields, zap.Error(err))...)
				return err
			}
			l.Info("Request completed", fields...)
			return nil
		})

		app.Use(rec.Middleware())

		app.Get("/swagger/*", swagger.HandlerDefault)
		if rec != nil {
			app.Get(rt.cfg.Metrics.Path, rec.Handler())
		}

		// Webhooks are authenticated by their signature.
		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Next: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), server.WebhookPathPrefix)
			},
		}))
		if !rt.cfg.Server.IsProtected() {
			logg.Warn("API key is not set, the API is unprotected")
		}

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			return app.Listen(":" + rt.cfg.Server.Port)
		})
		g.Go(func() error {
			<-gctx.Done()
			logg.Info("Shutting down server...")
			return app.ShutdownWithTimeout(10 * time.Second)
		})

		if err := g.Wait(); err != nil {
			logg.Fatal("Server failed", zap.Error(err))
		}
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
