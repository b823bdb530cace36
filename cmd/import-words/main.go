// Command import-words analyzes a batch of new words for a learner and
// stores the resulting concepts. Words come from a file (one per line) or
// from the remaining command-line arguments.
//
// Usage:
//
//	import-words -user <uuid> -lang zh -file words.txt
//	import-words -user <uuid> -lang sv hund katt hus
//
// Exit codes: 0 = all words imported, 1 = error or at least one word failed.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mittord/mittord-backend/internal/adapter/postgres"
	conceptrepo "github.com/mittord/mittord-backend/internal/adapter/postgres/concept"
	questionrepo "github.com/mittord/mittord-backend/internal/adapter/postgres/question"
	usagerepo "github.com/mittord/mittord-backend/internal/adapter/postgres/usage"
	"github.com/mittord/mittord-backend/internal/app"
	"github.com/mittord/mittord-backend/internal/config"
	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/gen"
	"github.com/mittord/mittord-backend/internal/service/generation"
)

func main() {
	userFlag := flag.String("user", "", "learner UUID")
	langFlag := flag.String("lang", "", "language code (zh, ja, sv, en)")
	fileFlag := flag.String("file", "", "path to word list, one word per line")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)
	logger.Info("starting import", slog.String("version", app.BuildVersion()))

	userID, err := uuid.Parse(*userFlag)
	if err != nil {
		logger.Error("invalid -user flag", slog.String("error", err.Error()))
		os.Exit(1)
	}
	lang := domain.Language(*langFlag)
	if !lang.IsValid() {
		logger.Error("invalid -lang flag", slog.String("lang", *langFlag))
		os.Exit(1)
	}

	words, err := readWords(*fileFlag, flag.Args())
	if err != nil {
		logger.Error("read word list", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(words) == 0 {
		logger.Error("no words to import")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	generator := gen.NewAnthropicGenerator(cfg.LLM.APIKey, cfg.LLM.Model)
	orch := gen.New(generator, usagerepo.New(pool, logger), gen.Config{
		MaxRetries: cfg.Generation.MaxRetries,
		SampleSize: cfg.Generation.VocabSample,
	}, logger)
	svc := generation.NewService(logger, conceptrepo.New(pool), questionrepo.New(pool), orch, generation.Config{
		ImportWorkers: cfg.Generation.ImportWorkers,
		ItemTimeout:   cfg.Generation.ItemTimeout,
	})

	results, err := svc.ImportWords(ctx, userID, lang, words)
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logger.Warn("word failed", slog.String("word", r.Word), slog.String("error", r.Err.Error()))
			continue
		}
		logger.Info("word imported",
			slog.String("word", r.Word),
			slog.Int("explanations", len(r.Concept.Explanations)))
	}

	logger.Info("import finished",
		slog.Int("total", len(results)),
		slog.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

// readWords loads the word list from a file when -file is set, otherwise
// from the remaining arguments.
func readWords(path string, args []string) ([]string, error) {
	if path == "" {
		return args, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if w := domain.NormalizeText(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	return words, scanner.Err()
}
