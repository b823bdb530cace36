// Command generate produces one content artifact for a learner's word and
// prints it as JSON.
//
// Usage:
//
//	generate -user <uuid> -lang zh -kind analysis 吗
//	generate -user <uuid> -lang zh -kind yesno 吗
//	generate -user <uuid> -lang sv -kind cloze katt
//	generate -user <uuid> -lang sv -kind evaluate -sentence "en katt" katt
//	generate -user <uuid> -lang zh -kind regen 吗
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

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
	kindFlag := flag.String("kind", "analysis", "artifact kind: analysis, yesno, cloze, evaluate, regen")
	sentenceFlag := flag.String("sentence", "", "learner sentence (evaluate only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Log)

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
	if flag.NArg() != 1 {
		logger.Error("expected exactly one word argument")
		os.Exit(1)
	}
	word := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.CallTimeout*5)
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
	svc := generation.NewService(logger, conceptrepo.New(pool), questionrepo.New(pool), orch, generation.Config{})

	var result any
	switch *kindFlag {
	case "analysis":
		result, err = svc.AnalyzeWord(ctx, userID, lang, word)
	case "yesno":
		result, err = svc.YesNoQuestion(ctx, userID, lang, word)
	case "cloze":
		result, err = svc.ClozeQuestion(ctx, userID, lang, word)
	case "evaluate":
		result, err = svc.EvaluateSentence(ctx, userID, lang, word, *sentenceFlag)
	case "regen":
		result, err = svc.RegenerateExplanations(ctx, userID, lang, word)
	default:
		logger.Error("unknown -kind", slog.String("kind", *kindFlag))
		os.Exit(1)
	}
	if err != nil {
		if exh, ok := gen.IsExhausted(err); ok {
			logger.Error("generation exhausted",
				slog.Int("attempts", exh.Attempts),
				slog.Any("illegal", exh.Illegal))
		} else {
			logger.Error("generation failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("encode result", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
