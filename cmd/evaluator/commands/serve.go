package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"speakcoach/evaluator/handlers"
	"speakcoach/evaluator/internal/worker"
	"speakcoach/evaluator/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the evaluation workers",
	Long: `Start the HTTP API and the background worker pool.

Call events and direct evaluation requests are queued and evaluated by the
workers. SIGINT or SIGTERM stops the HTTP server first, then waits for every
queued evaluation to finish.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	dispatcher := worker.NewDispatcher(a.cfg.Worker.MaxWorkers, a.cfg.Worker.QueueSize, logrus.NewEntry(a.log))
	dispatcher.Run()

	server := fiber.New(fiber.Config{
		AppName:               "evaluator",
		DisableStartupMessage: true,
	})
	server.Use(recover.New())
	server.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	server.Use(middleware.RequestLogger(a.log))
	handlers.NewApplicationHandler(dispatcher, a.pipeline, a.store, a.log).Register(server)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listenErr := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.cfg.HTTP.Addr).Info("Starting evaluator API")
		listenErr <- server.Listen(a.cfg.HTTP.Addr)
	}()

	select {
	case err = <-listenErr:
		a.log.WithError(err).Error("HTTP server stopped")
	case <-ctx.Done():
		a.log.Info("Shutting down evaluator")
		if err := server.Shutdown(); err != nil {
			a.log.WithError(err).Warn("HTTP shutdown failed")
		}
	}

	dispatcher.Stop()
	a.log.Info("Evaluator shut down gracefully")
	return err
}
