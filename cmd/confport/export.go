package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/confport/confport/internal/bookstack"
	"github.com/confport/confport/internal/config"
	"github.com/confport/confport/internal/confluence"
	"github.com/confport/confport/internal/crawler"
	"github.com/confport/confport/internal/export"
	"github.com/confport/confport/internal/log"
	"github.com/confport/confport/internal/model"
	"github.com/confport/confport/internal/pipeline"
	"github.com/confport/confport/internal/report"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [page-url-or-id]",
		Short: "Export a page tree from Confluence",
		Long: `Export fetches a Confluence page (and, with --recurse, the pages it
links to), rewrites intra- and inter-page references, inlines images as
data URIs, sanitizes the markup, and writes the results to disk and/or
publishes them to BookStack.

Examples:
  # Dry run: write artifacts only, publish nothing
  confport export --dry-run -o ./out https://wiki.example.com/pages/viewpage.action?pageId=12345

  # Export a page and everything it links to, two levels deep
  confport export --recurse --depth 2 --book "Migrated Docs" 12345

  # Credentials from a config file, Markdown summary to a file
  confport export -c ./confport.yaml --markdown --report-file summary.md 12345

Configuration file (.confport.yaml) example:
  source:
    base_url: https://wiki.example.com
    user: exporter@example.com
    token: api-token
  target:
    base_url: https://bookstack.example.com
    token_id: id
    token_secret: secret`,
		Args: cobra.ExactArgs(1),
		RunE: runExportCmd,
	}

	// Source connection flags
	cmd.Flags().String("source-url", "", "Base URL of the source wiki")
	cmd.Flags().String("source-user", "", "Source API user")
	cmd.Flags().String("source-token", "", "Source API token")

	// Target connection flags
	cmd.Flags().String("target-url", "", "Base URL of the target BookStack instance")
	cmd.Flags().String("target-token-id", "", "Target API token ID")
	cmd.Flags().String("target-token-secret", "", "Target API token secret")
	cmd.Flags().String("book", config.DefaultBookName, "Target book the pages are published into")

	// Crawl behavior flags
	cmd.Flags().BoolP("recurse", "r", false, "Follow links to other source pages")
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth, "Maximum recursion depth (0 = root page only)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request timeout")

	// Transform flags
	cmd.Flags().Bool("inline-images", true, "Fetch referenced images and embed them as data URIs")
	cmd.Flags().Int("image-concurrency", config.DefaultImageConcurrency, "Concurrent asset fetches per page")
	cmd.Flags().Int64("max-image-bytes", config.DefaultMaxImageBytes, "Per-asset size cap in bytes")
	cmd.Flags().Int("link-concurrency", config.DefaultLinkConcurrency, "Concurrent title lookups per page")
	cmd.Flags().Bool("keep-ids", false, "Keep all element IDs instead of only protected ones")
	cmd.Flags().Bool("full-document", false, "Write complete HTML documents instead of fragments")

	// Output flags
	cmd.Flags().StringP("output", "o", "", "Directory for HTML artifacts (empty = no files)")
	cmd.Flags().Bool("dry-run", false, "Skip publishing to the target system")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .confport.yaml in current directory, XDG config, or home)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false, "Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "", "Write the summary to a file instead of stdout")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Graceful shutdown on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExport(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the optional
// configuration file. Flags always win over file values.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootPage = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	if cfg.SourceBaseURL, err = cmd.Flags().GetString("source-url"); err != nil {
		return nil, err
	}
	if cfg.SourceUser, err = cmd.Flags().GetString("source-user"); err != nil {
		return nil, err
	}
	if cfg.SourceToken, err = cmd.Flags().GetString("source-token"); err != nil {
		return nil, err
	}
	if cfg.TargetBaseURL, err = cmd.Flags().GetString("target-url"); err != nil {
		return nil, err
	}
	if cfg.TargetTokenID, err = cmd.Flags().GetString("target-token-id"); err != nil {
		return nil, err
	}
	if cfg.TargetTokenSecret, err = cmd.Flags().GetString("target-token-secret"); err != nil {
		return nil, err
	}
	if cfg.BookName, err = cmd.Flags().GetString("book"); err != nil {
		return nil, err
	}
	if cfg.Recurse, err = cmd.Flags().GetBool("recurse"); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.InlineImages, err = cmd.Flags().GetBool("inline-images"); err != nil {
		return nil, err
	}
	if cfg.ImageConcurrency, err = cmd.Flags().GetInt("image-concurrency"); err != nil {
		return nil, err
	}
	if cfg.MaxImageBytes, err = cmd.Flags().GetInt64("max-image-bytes"); err != nil {
		return nil, err
	}
	if cfg.LinkConcurrency, err = cmd.Flags().GetInt("link-concurrency"); err != nil {
		return nil, err
	}
	if cfg.KeepAllIDs, err = cmd.Flags().GetBool("keep-ids"); err != nil {
		return nil, err
	}
	if cfg.FullDocument, err = cmd.Flags().GetBool("full-document"); err != nil {
		return nil, err
	}
	if cfg.OutputDir, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.DryRun, err = cmd.Flags().GetBool("dry-run"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report-file"); err != nil {
		return nil, err
	}

	// Fill connection settings from the config file when flags left them
	// empty. An explicitly named file must exist; discovery may come up
	// empty without error.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.Merge(file)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runExport executes the crawl, writes artifacts, publishes, and reports.
func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := confluence.NewClient(cfg.SourceBaseURL, cfg.SourceUser, cfg.SourceToken,
		confluence.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		confluence.WithRetryAttempts(cfg.RetryAttempts),
		confluence.WithRetryBackoff(cfg.RetryBackoff),
		confluence.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	rootID, originURL, err := resolveRootPage(client, cfg.RootPage)
	if err != nil {
		return err
	}

	pipe := pipeline.Default(client, cfg, logger)
	exporter := crawler.NewExporter(client, pipe,
		crawler.WithRecursion(cfg.Recurse),
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithLogger(logger),
	)

	logger.Info("starting export",
		"root", rootID,
		"recurse", cfg.Recurse,
		"depth", cfg.MaxDepth,
		"dryRun", cfg.DryRun,
	)

	result, err := exporter.Export(ctx, rootID, originURL)
	if err != nil {
		return err
	}

	if cfg.OutputDir != "" {
		writer := export.NewWriter(cfg.OutputDir,
			export.WithFullDocument(cfg.FullDocument),
			export.WithLogger(logger),
		)
		for _, page := range result.Pages {
			path, err := writer.Write(page)
			if err != nil {
				return err
			}
			page.OutputFile = path
		}
	}

	if !cfg.DryRun {
		if err := publish(ctx, cfg, logger, result); err != nil {
			return err
		}
	}

	return outputReport(cfg, result)
}

// resolveRootPage turns the CLI page argument (URL or bare numeric ID) into
// a page ID, keeping the origin URL when one was given.
func resolveRootPage(client *confluence.Client, arg string) (rootID, originURL string, err error) {
	if isNumeric(arg) {
		return arg, "", nil
	}
	if id, ok := confluence.PageID(client.Base(), arg); ok {
		return id, arg, nil
	}
	return "", "", fmt.Errorf("cannot determine page ID from %q (expected a source page URL or numeric ID)", arg)
}

// isNumeric reports whether s is a non-empty run of ASCII digits.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// publish creates all exported pages in the target book.
func publish(ctx context.Context, cfg *config.Config, logger *slog.Logger, result *model.ExportResult) error {
	target, err := bookstack.NewClient(cfg.TargetBaseURL, cfg.TargetTokenID, cfg.TargetTokenSecret,
		bookstack.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		bookstack.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	bookID, err := target.FindOrCreateBook(ctx, cfg.BookName)
	if err != nil {
		return err
	}

	for _, page := range result.Pages {
		created, err := target.CreatePage(ctx, bookstack.CreatePageParams{
			Name:   page.Document.Title,
			HTML:   page.HTML,
			BookID: bookID,
		})
		if err != nil {
			return err
		}
		page.TargetPageID = created.ID
		logger.Info("page published",
			"source_id", page.Document.ID,
			"target_id", created.ID,
			"slug", created.Slug,
		)
	}
	return nil
}

// outputReport writes the crawl summary in the selected format.
func outputReport(cfg *config.Config, result *model.ExportResult) error {
	var out io.Writer = os.Stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(out)
	default:
		writer = report.NewTextWriter(out)
	}

	_, err := writer.Write(result)
	return err
}
