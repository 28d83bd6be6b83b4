package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/EpKuz6121/ValentinesDayCrossword/internal/catalog"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/httpserver"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/puzzle"
	"github.com/EpKuz6121/ValentinesDayCrossword/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := catalog.Load(os.Getenv("PUZZLE_DIR"), getEnv("DEFAULT_PUZZLE", "valentine"))
	if err != nil {
		var de *puzzle.DatasetError
		if errors.As(err, &de) {
			log.Fatal().Err(err).Str("word", de.Word).Int("clue", de.Number).Msg("invalid puzzle dataset")
		}
		log.Fatal().Err(err).Msg("failed to load puzzles")
	}
	log.Info().Int("puzzles", cat.Len()).Str("default", cat.Default().ID).Msg("puzzles loaded")

	db, err := openDB(getEnv("DB_PATH", "./data/crossword.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer db.Close()
	if _, err := migrate(context.Background(), db, getEnv("MIGRATIONS_DIR", "sql")); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(cat, mem, db)
	port := getEnv("PORT", "5175")
	if err := serve(":"+port, srv); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// serve runs h on addr until SIGINT/SIGTERM, then drains in-flight requests.
func serve(addr string, h http.Handler) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("starting crossword server")
		if err := hs.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
