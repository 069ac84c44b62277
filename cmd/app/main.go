package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/userdirectory/internal/domain/directory"
	apperrors "github.com/yanqian/userdirectory/pkg/errors"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		if apperrors.IsCode(err, directory.CodeDuplicateKey) {
			log.Printf("seed users violate uniqueness: %v", err)
			return 2
		}
		log.Printf("failed to wire application: %v", err)
		return 1
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("application stopped with error: %v", err)
		return 1
	}
	return 0
}
