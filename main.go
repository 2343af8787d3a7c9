// main.go
//
// Entry point of the szokereso game server.
//
// Commands:
//   serve                                  run the HTTP server (default)
//   import-legacy <file>                   convert a legacy line-format archive
//   import-dictionary <from> <to> <file>   load word<TAB>translation pairs
//   token [player-id] [role]               print a player token (random id if omitted)
//
// Everything is configured from the environment (see internal/config) and
// wired here; no package holds global state besides the logger.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/szokereso/assets"
	"github.com/robalobadob/szokereso/internal/archive"
	"github.com/robalobadob/szokereso/internal/community"
	"github.com/robalobadob/szokereso/internal/config"
	"github.com/robalobadob/szokereso/internal/dictionary"
	"github.com/robalobadob/szokereso/internal/game"
	"github.com/robalobadob/szokereso/internal/httpserver"
	"github.com/robalobadob/szokereso/internal/players"
	"github.com/robalobadob/szokereso/internal/schedule"
	"github.com/robalobadob/szokereso/internal/sqlite"
	"github.com/robalobadob/szokereso/internal/words"
)

func main() {
	env := config.LoadEnv()
	setupLogging(env)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(env)
	case "import-legacy":
		err = importLegacy(env, args)
	case "import-dictionary":
		err = importDictionary(env, args)
	case "token":
		err = printToken(env, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("command failed")
	}
}

func setupLogging(env config.Env) {
	if lvl, err := zerolog.ParseLevel(env.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if env.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func archivePath(env config.Env) string { return filepath.Join(env.DataDir, "archive.json") }

func openDB(env config.Env) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(env.DBPath), 0o755); err != nil {
		return nil, err
	}
	return sqlite.OpenMigrated(env.DBPath, assets.Migrations())
}

func serve(env config.Env) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadGame(env.GameConfig)
	if err != nil {
		return err
	}
	if env.EndCeiling > 0 {
		cfg.EndCeiling = env.EndCeiling
	}
	if err := os.MkdirAll(env.DataDir, 0o755); err != nil {
		return err
	}

	db, err := openDB(env)
	if err != nil {
		return err
	}
	defer db.Close()

	var dict dictionary.Lookup = dictionary.NewSQLDictionary(db)
	if env.RedisURL != "" {
		cache, err := dictionary.NewRedisCache(ctx, env.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable; translations are not cached")
		} else {
			defer cache.Close()
			dict = dictionary.NewCached(dict, cache, 24*time.Hour)
		}
	}

	ps := players.NewSQLStore(db)
	eng := game.New(game.Deps{
		Config:     cfg,
		Archive:    archive.NewFileStore(archivePath(env)),
		Live:       archive.NewLiveFile(filepath.Join(env.DataDir, "live.json")),
		Players:    ps,
		Community:  community.NewFileStore(filepath.Join(env.DataDir, "community")),
		Dictionary: dict,
		Wordlists:  words.NewLists(filepath.Join(env.DataDir, "wordlists")),
	})
	if err := eng.Load(ctx); err != nil {
		return err
	}
	table := game.NewTable(eng)

	if env.NewGameCron != "" {
		sched, err := schedule.Start(env.NewGameCron, schedule.NewGameJob(table, 30*time.Second))
		if err != nil {
			return fmt.Errorf("new-game schedule: %w", err)
		}
		defer func() { _ = sched.Stop() }()
	}

	srv := httpserver.New(table, ps, httpserver.Options{
		JWTSecret:    []byte(env.JWTSecret),
		ClientOrigin: env.ClientOrigin,
	})
	hs := &http.Server{
		Addr:              ":" + env.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", env.Port).Str("dataDir", env.DataDir).Msg("starting szokereso")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}

func importLegacy(env config.Env, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: import-legacy <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	recs, err := archive.ParseLegacy(args[0], f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(env.DataDir, 0o755); err != nil {
		return err
	}
	store := archive.NewFileStore(archivePath(env))
	if err := archive.Import(context.Background(), store, recs); err != nil {
		return err
	}
	log.Info().Int("records", len(recs)).Str("archive", store.Path()).Msg("legacy archive imported")
	return nil
}

func importDictionary(env config.Env, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: import-dictionary <from-lang> <to-lang> <file.tsv>")
	}
	f, err := os.Open(args[2])
	if err != nil {
		return err
	}
	defer f.Close()

	db, err := openDB(env)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := dictionary.NewSQLDictionary(db).ImportTSV(context.Background(), args[0], args[1], f)
	if err != nil {
		return fmt.Errorf("after %d entries: %w", n, err)
	}
	log.Info().Int("entries", n).Str("from", args[0]).Str("to", args[1]).Msg("dictionary imported")
	return nil
}

func printToken(env config.Env, args []string) error {
	if len(args) > 2 {
		return errors.New("usage: token [player-id] [role]")
	}
	id, role := uuid.NewString(), ""
	if len(args) > 0 && args[0] != "" {
		id = args[0]
	}
	if len(args) == 2 {
		role = args[1]
	}
	tok, err := httpserver.SignToken([]byte(env.JWTSecret), id, role, env.TokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(tok)
	return nil
}
