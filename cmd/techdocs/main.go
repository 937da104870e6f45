package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/michaeldistler/backstage"
	"github.com/michaeldistler/backstage/collate"
	"github.com/michaeldistler/backstage/config"
	"github.com/michaeldistler/backstage/fs"
	backhttp "github.com/michaeldistler/backstage/http"
	backslog "github.com/michaeldistler/backstage/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments. Collated documents are
// written as NDJSON to stdout (or --output); logs go to stderr.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("techdocs-collate"),
		kong.Description("Collate searchable TechDocs documents from a Backstage catalog"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	// A .env file, when present, feeds the BACKSTAGE_* overrides.
	_ = godotenv.Load()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	cli.override(&cfg)

	if cfg.BaseURL == "" {
		return fmt.Errorf("backstage base URL required (--base-url, config file, or BACKSTAGE_BASE_URL)")
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Wire dependencies
	discovery := backhttp.NewDiscovery(cfg.BaseURL)

	var tokens backstage.TokenService
	if cfg.TokenURL != "" {
		tokens = backhttp.NewTokenClient(cfg.TokenURL)
	} else {
		tokens = backhttp.NewStaticTokenService(cfg.Token)
	}

	catalogBase, err := discovery.BaseURL(ctx, "catalog")
	if err != nil {
		return fmt.Errorf("resolve catalog base URL: %w", err)
	}
	catalog := backslog.NewLoggingCatalogService(backhttp.NewCatalogService(catalogBase), logger)

	var indexOpts []backhttp.Option
	if cfg.TechDocs.RequestsPerSecond > 0 {
		indexOpts = append(indexOpts, backhttp.WithHostLimiter(collate.NewDomainLimiter(cfg.TechDocs.RequestsPerSecond)))
	}
	index := backslog.NewLoggingSearchIndexService(backhttp.NewSearchIndexService(indexOpts...), logger)

	collator := &collate.Collator{
		Discovery:        discovery,
		Tokens:           tokens,
		Catalog:          catalog,
		Index:            index,
		Logger:           logger,
		Template:         cfg.TechDocs.Template,
		Concurrency:      cfg.TechDocs.Concurrency,
		LegacyPathCasing: cfg.TechDocs.LegacyUseCaseSensitiveTripletPaths,
	}

	out := stdout
	if cli.Output != "" {
		f, err := os.Create(cli.Output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	writer := fs.NewWriter(out)

	stream, err := collator.Collate(ctx)
	if err != nil {
		return err
	}

	var count int
	for {
		doc, ok := stream.Next(ctx)
		if !ok {
			break
		}
		if err := writer.WriteDocument(ctx, doc); err != nil {
			return fmt.Errorf("write document: %w", err)
		}
		count++
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	logger.Info("collation finished", "documents", count)
	return nil
}
