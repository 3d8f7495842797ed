// Package main provides the entry point for the Noted notes service.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/notedapp/noted-server/internal/di"
	"github.com/notedapp/noted-server/internal/logger"
)

func main() {
	injector := di.NewNotesContainer()

	if err := di.BootstrapNotes(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap notes service: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down notes service gracefully...")

	// Shutdownable handles (server, database) are stopped in reverse order.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Notes service stopped")
}
