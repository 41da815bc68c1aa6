package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/scmkit/scmkit/internal/handlers"
	"github.com/scmkit/scmkit/internal/logger"
	"github.com/scmkit/scmkit/internal/middleware"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the repository operations over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := NewApp()
		logger.Infof("listening on :%d", servePort)
		return app.Listen(fmt.Sprintf(":%d", servePort))
	},
}

// NewApp builds the fiber application with all routes mounted.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "scmkit",
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestID)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.NewSCMHandler().Register(app)
	return app
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8787, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}
