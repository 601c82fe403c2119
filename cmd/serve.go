package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grocerystore/auth"
	"grocerystore/cart"
	"grocerystore/catalog"
	"grocerystore/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// newServer builds the fiber app with middleware, media and API routes.
func newServer(a *app) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:      "grocerystore",
		ErrorHandler: routes.ErrorHandler(a.log),
	})

	// Middleware
	server.Use(recover.New())
	server.Use(logger.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(a.cfg.Server.CORSAllowOrigins, ","),
	}))

	// Serve uploaded and derived images
	if err := os.MkdirAll(a.cfg.Media.Root, 0755); err != nil {
		a.log.Warn("Could not create media root", zap.String("root", a.cfg.Media.Root), zap.Error(err))
	}
	server.Static(a.cfg.Media.URL, a.cfg.Media.Root)

	routes.SetupRoutes(server, routes.Dependencies{
		Catalog:  catalog.NewRepository(a.db),
		Carts:    cart.NewService(a.db, a.log),
		Tokens:   auth.NewStore(a.db),
		MediaURL: a.cfg.Media.URL,
		Log:      a.log,
	})
	return server
}

func serve(ctx context.Context) error {
	server := newServer(&env)
	port := env.cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	errCh := make(chan error, 1)
	go func() {
		env.log.Info("Starting HTTP server", zap.String("port", port))
		errCh <- server.Listen(port)
	}()

	quit, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-quit.Done():
	}

	env.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		return err
	}
	env.log.Info("Server stopped")
	return nil
}
