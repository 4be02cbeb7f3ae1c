package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agenthands/kgevidence/internal/config"
	"github.com/agenthands/kgevidence/internal/core"
	"github.com/agenthands/kgevidence/internal/core/cache"
	"github.com/agenthands/kgevidence/internal/core/candidates"
	"github.com/agenthands/kgevidence/internal/core/evidence"
	"github.com/agenthands/kgevidence/internal/core/graph"
	"github.com/agenthands/kgevidence/internal/core/model"
	"github.com/agenthands/kgevidence/internal/core/relation"
	"github.com/agenthands/kgevidence/internal/driver"
	"github.com/agenthands/kgevidence/internal/llm"
	"github.com/agenthands/kgevidence/internal/logger"
	"github.com/agenthands/kgevidence/internal/search"
	"github.com/agenthands/kgevidence/internal/server"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kgevidence",
		Short: "Recommend and verify biomedical knowledge-graph triples",
		Long: `kgevidence serves the /api/recommend and /api/verify endpoints.

Triples are checked against a Neo4j knowledge graph or scored with live
web-search evidence. Search and LLM keys are supplied per request.`,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to config.toml (default $CONFIG_PATH or config/config.toml)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kgevidence v%s (%s)\n", version, commit)
		},
	})

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("port", "", "HTTP port (overrides config and $PORT)")
	serveCmd.Flags().Bool("skip-graph", false, "Start without a Neo4j connection; graph strategies return 500")
	serveCmd.Flags().Bool("build-indices", false, "Create the Entity name index on startup")
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "normalize [phrase...]",
		Short: "Print the canonical relation code for each phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNormalize,
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using environment")
	}

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.toml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	table, err := relation.Build(cfg.Relations.Tables, cfg.Relations.Files)
	if err != nil {
		return err
	}
	n := relation.NewNormalizer(table)
	for _, phrase := range args {
		fmt.Printf("%s\t%s\n", phrase, n.Normalize(phrase))
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Server.Port = port
	}
	skipGraph, _ := cmd.Flags().GetBool("skip-graph")
	buildIndices, _ := cmd.Flags().GetBool("build-indices")

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table, err := relation.Build(cfg.Relations.Tables, cfg.Relations.Files)
	if err != nil {
		return err
	}

	var (
		graphStore core.GraphStore
		neo4j      *driver.Neo4jDriver
	)
	if !skipGraph {
		neo4j, err = driver.NewNeo4jDriver(ctx, driver.Options{
			URI:         cfg.Neo4j.URI,
			User:        cfg.Neo4j.User,
			Password:    cfg.Neo4j.Password,
			Database:    cfg.Neo4j.Database,
			MaxPoolSize: cfg.Neo4j.MaxPoolSize,
			Timeout:     cfg.Neo4jTimeout(),
		}, log)
		if err != nil {
			return err
		}
		if buildIndices {
			_ = neo4j.BuildIndices(ctx)
		}
		graphStore = graph.NewStore(neo4j)
	} else {
		log.Warn("Starting without a graph connection")
	}

	evidenceCache := cache.New[model.Evidence](cfg.CacheTTL(), cfg.Cache.Capacity)
	engine := core.NewEngine(core.Deps{
		Graph:      graphStore,
		Normalizer: relation.NewNormalizer(table),
		Aggregator: evidence.NewAggregator(evidenceCache, log,
			evidence.WithResultsPerQuery(cfg.Search.ResultsPerQuery),
			evidence.WithQueryTimeout(cfg.SearchTimeout()),
		),
		Candidates: candidates.NewGenerator(log, candidates.DefaultMaxCandidates),
		LLM:        llm.NewFactory(cfg.LLM),
		Searchers: func(apiKey string) evidence.Searcher {
			return search.NewSerper(apiKey, search.WithBaseURL(cfg.Search.BaseURL))
		},
		ScoringLimit: cfg.Concurrency.Scoring,
		Log:          log,
	})

	srv := server.NewServer(engine, evidenceCache, cfg.Server, log)
	runErr := srv.Run(ctx, ":"+strings.TrimPrefix(cfg.Server.Port, ":"))

	// The HTTP server has drained; the graph driver goes last.
	if neo4j != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := neo4j.Close(closeCtx); err != nil {
			log.Warn("failed to close neo4j driver", "error", err)
		}
	}
	return runErr
}
