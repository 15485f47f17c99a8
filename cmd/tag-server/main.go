package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/micropapers/papertag/internal/httpapi"
	"github.com/micropapers/papertag/internal/tagger"
	"github.com/micropapers/papertag/internal/vocab"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	vocabPath := flag.String("vocab", "", "Vocabulary file; built-in vocabulary when empty")
	routerPath := flag.String("router", "", "Field-routing policy file; built-in policy when empty")
	flag.Parse()

	table := vocab.DefaultTable()
	if *vocabPath != "" {
		var err error
		if table, err = vocab.Load(*vocabPath); err != nil {
			log.Fatal(err)
		}
	}
	router := vocab.DefaultRouter()
	if *routerPath != "" {
		var err error
		if router, err = vocab.LoadRouter(*routerPath); err != nil {
			log.Fatal(err)
		}
	}
	t, err := tagger.New(table, router)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewServer(t),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("tag-server listening on %s (%d categories)", *addr, len(table.Categories()))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("tag-server stopped")
}
