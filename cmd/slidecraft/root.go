package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/slidecraft/config"
	"github.com/sweetpotato0/slidecraft/contrib/provider"
	"github.com/sweetpotato0/slidecraft/pipeline"
	"github.com/sweetpotato0/slidecraft/pkg/telemetry"
	"github.com/sweetpotato0/slidecraft/session"
	"github.com/sweetpotato0/slidecraft/session/store"
)

var version = "0.2.0"

type rootFlags struct {
	provider string
	trace    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "slidecraft",
		Short: "Generate styled slide decks from a topic",
		Long: `slidecraft builds presentations from scratch or by converting PowerPoint
files: it researches a topic, curates it into a slide deck, picks a visual
style, and exports HTML, PPTX, and PDF. Sessions persist so decks can be
edited and re-exported later.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.provider, "provider", "",
		"LLM provider: copilot, openai, claude, gemini (default: auto-detect)")
	cmd.PersistentFlags().BoolVar(&flags.trace, "trace", false,
		"enable OpenTelemetry tracing")

	cmd.AddCommand(
		newNewCmd(flags),
		newConvertCmd(),
		newEditCmd(flags),
		newStyleCmd(flags),
		newExportCmd(flags),
		newStylesCmd(),
		newPreviewCmd(),
		newSessionsCmd(),
		newResearchCmd(flags),
		newServeCmd(flags),
	)
	return cmd
}

// setup loads config, initializes tracing, and wires the orchestrator. The
// returned cleanup flushes telemetry.
func setup(ctx context.Context, flags *rootFlags) (*pipeline.Orchestrator, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    "slidecraft",
		ServiceVersion: version,
		Disable:        !flags.trace,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = shutdown(context.Background()) }

	name := flags.provider
	if name == "" {
		name = cfg.Provider
	}
	if cfg.Model != "" && os.Getenv("SLIDE_LLM_MODEL") == "" {
		os.Setenv("SLIDE_LLM_MODEL", cfg.Model)
	}
	client, err := provider.New(ctx, name)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	sessions, err := buildStore(cfg)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	o, err := pipeline.NewOrchestrator(client, pipeline.WithStore(sessions))
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return o, cfg, cleanup, nil
}

// setupStore wires just the session store, for commands that never call the
// model.
func setupStore() (session.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	sessions, err := buildStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return sessions, cfg, nil
}

func buildStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		return store.NewRedisStore(&store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), nil
	case config.StoreMongo:
		return store.NewMongoStore(&store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	case config.StorePostgres:
		return store.NewPostgresStore(&store.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.DBName,
			SSLMode:  cfg.Postgres.SSLMode,
		})
	default:
		return session.NewFileStore(cfg.Workspace)
	}
}

func printOutputs(cmd *cobra.Command, paths map[string]string) {
	for format, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-5s %s\n", format, path)
	}
}
