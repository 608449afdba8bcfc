package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Gopher0727/StudyGroup/config"
	"github.com/Gopher0727/StudyGroup/internal/app"
	"github.com/Gopher0727/StudyGroup/internal/domain"
	"github.com/Gopher0727/StudyGroup/internal/pkg/logger"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config.toml (built-in defaults when empty)")
	meetingAt := pflag.String("meeting", "", `meeting time for the demo groups, e.g. "2025-04-10 15:00" (now when empty)`)
	pflag.Parse()

	var meeting time.Time
	if *meetingAt != "" {
		var err error
		meeting, err = domain.ParseDate(*meetingAt, time.Local)
		if err != nil {
			log.Fatalf("invalid --meeting: %v", err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadConfig(*configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer a.Close()

	ctx := logger.WithTraceID(context.Background(), "")
	if err := app.RunDemo(ctx, os.Stdout, a.Facade, meeting); err != nil {
		a.Logger.ErrorContext(ctx, "demo failed", zap.Error(err))
		a.Close()
		os.Exit(1)
	}
	if err := a.LogMetrics(); err != nil {
		a.Logger.WarnContext(ctx, "failed to report metrics", zap.Error(err))
	}
}
