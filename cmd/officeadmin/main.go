package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"semaphore/booking/internal/config"
	"semaphore/booking/internal/docstore"
	"semaphore/booking/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DocumentBackend == "memory" {
		log.Printf("warning: DOCUMENT_BACKEND is memory, the account will not outlive this process")
	}
	docs, closeDocs, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("document store init failed: %v", err)
	}
	defer closeDocs()

	cli := &commandLine{
		accounts: repository.NewStore(docs, cfg.OfficeListDoc, cfg.OfficeListField),
		out:      os.Stdout,
	}
	if err := cli.run(ctx, os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		log.Fatalf("officeadmin: %v", err)
	}
}
