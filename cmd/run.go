// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-unarchive"
	"github.com/hashicorp/go-unarchive/finalizer"
	"github.com/hashicorp/go-unarchive/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// CLI are the cli parameters for the unarchive binary
type CLI struct {
	Archives            []string         `arg:"" name:"archives" help:"Paths to archives." type:"existingfile"`
	CreateDestination   bool             `short:"c" help:"Create destination directory if it does not exist."`
	DenySymlinks        bool             `short:"D" help:"Deny symlink extraction."`
	Destination         string           `short:"d" default:"." help:"Output directory/file. Several archives are extracted into sub directories."`
	Driver              string           `default:"auto" enum:"auto,zip,tar,rar,7z,decompress" help:"Archive format (${enum})."`
	Entry               string           `short:"e" optional:"" help:"Extract only this entry, or the entries below this directory."`
	EventBus            string           `optional:"" help:"Publish an event per extraction to this EventBridge bus (\"default\" for the default bus)."`
	EventRegion         string           `optional:"" help:"AWS region of the EventBridge bus."`
	Exclude             []string         `short:"x" optional:"" help:"Exclude pattern (*, ?, **). Can be repeated."`
	IgnoreCase          bool             `optional:"" help:"Match include and exclude patterns case-insensitive."`
	IgnorePermissions   bool             `optional:"" help:"Don't apply the permissions of the archive entries."`
	Include             []string         `short:"i" optional:"" help:"Include pattern (*, ?, **). Can be repeated."`
	Ledger              string           `optional:"" help:"Record every extraction in this SQLite database."`
	Manifest            string           `optional:"" help:"Write a JSON manifest per archive into this directory."`
	MaxEntrySize        string           `optional:"" help:"Skip entries larger than this size, e.g. 10MiB."`
	MaxExtractionSize   int64            `optional:"" default:"1073741824" help:"Maximum extraction size that allowed is (in bytes). (disable check: -1)"`
	MaxExtractionTime   int64            `optional:"" default:"60" help:"Maximum time that an extraction should take (in seconds). (disable check: -1)"`
	MaxFiles            int64            `optional:"" default:"100000" help:"Maximum files that are extracted before stop. (disable check: -1)"`
	MaxInputSize        int64            `optional:"" default:"1073741824" help:"Maximum input size that allowed is (in bytes). (disable check: -1)"`
	Metrics             bool             `short:"M" optional:"" default:"false" help:"Print a summary per archive after extraction."`
	MetricsFile         string           `optional:"" help:"Write prometheus metrics to this node exporter textfile."`
	Overwrite           bool             `short:"O" help:"Overwrite existing files even if they are newer than the entry."`
	Parallel            int              `short:"p" default:"4" help:"Number of archives that are extracted in parallel."`
	Password            string           `optional:"" help:"Password of encrypted rar and 7zip archives."`
	PortablePermissions bool             `optional:"" help:"Use the portable permission mechanism."`
	Rules               string           `optional:"" help:"YAML file with content filter rules."`
	Verbose             bool             `short:"v" optional:"" help:"Verbose logging."`
	Version             kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Run the entrypoint into go-unarchive as a cli tool
func Run(version, commit, date string) {
	var cli CLI
	kong.Parse(&cli,
		kong.Description("A safe archive extraction utility"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx := context.Background()
	if cli.MaxExtractionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second*time.Duration(cli.MaxExtractionTime))
		defer cancel()
	}

	if err := cli.Execute(ctx, logger, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("error during extraction: %w", err))
		os.Exit(-1)
	}
}

// Execute extracts all archives of the cli parameters. Summaries are written to out.
func (cli *CLI) Execute(ctx context.Context, logger *slog.Logger, out io.Writer) error {
	selectors, err := cli.selectors()
	if err != nil {
		return err
	}
	contentFilter, err := cli.contentFilter()
	if err != nil {
		return err
	}

	// metrics are collected for all archives
	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("cannot register metrics: %w", err)
	}

	// finalizers that are shared by all archives
	var shared []unarchive.Finalizer
	if len(cli.Ledger) > 0 {
		ledger, err := finalizer.OpenLedger(cli.Ledger)
		if err != nil {
			return err
		}
		defer ledger.Close()
		shared = append(shared, ledger)
	}
	if len(cli.EventBus) > 0 {
		bus := cli.EventBus
		if bus == "default" {
			bus = ""
		}
		events, err := finalizer.NewEventsFromConfig(ctx, cli.EventRegion, bus)
		if err != nil {
			return err
		}
		shared = append(shared, events)
	}

	out = &syncWriter{w: out}
	parallel := cli.Parallel
	if parallel < 1 {
		parallel = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for _, src := range cli.Archives {
		src := src
		g.Go(func() error {
			d, err := newDriver(cli.Driver, cli.Password)
			if err != nil {
				return err
			}

			hook := collector.Hook()
			if cli.Metrics {
				hook = telemetry.Chain(hook, summary(out, src))
			}

			u := unarchive.NewForSource(d, src, cli.config(logger, hook))
			u.SetSelectors(selectors...)
			u.SetContentFilter(contentFilter)
			u.AddFinalizer(finalizer.NewLog(logger, slog.LevelInfo))
			if len(cli.Manifest) > 0 {
				u.AddFinalizer(finalizer.NewManifest(filepath.Join(cli.Manifest, stem(src)+".manifest.json")))
			}
			for _, f := range shared {
				u.AddFinalizer(f)
			}

			dst := destinationFor(cli.Destination, src, len(cli.Archives))
			if len(cli.Entry) > 0 {
				return u.ExtractEntry(gctx, cli.Entry, dst)
			}
			u.SetDestDirectory(dst)
			return u.Extract(gctx)
		})
	}
	extractErr := g.Wait()

	if len(cli.MetricsFile) > 0 {
		if err := prometheus.WriteToTextfile(cli.MetricsFile, reg); err != nil {
			logger.Error("writing metrics failed", "path", cli.MetricsFile, "err", err)
			if extractErr == nil {
				extractErr = err
			}
		}
	}
	return extractErr
}

// config translates the cli parameters into a configuration.
func (cli *CLI) config(logger *slog.Logger, hook telemetry.TelemetryHook) *unarchive.Config {
	return unarchive.NewConfig(
		unarchive.WithCreateDestination(cli.CreateDestination || len(cli.Archives) > 1),
		unarchive.WithDenySymlinkExtraction(cli.DenySymlinks),
		unarchive.WithIgnorePermissions(cli.IgnorePermissions),
		unarchive.WithLogger(logger),
		unarchive.WithMaxExtractionSize(cli.MaxExtractionSize),
		unarchive.WithMaxFiles(cli.MaxFiles),
		unarchive.WithMaxInputSize(cli.MaxInputSize),
		unarchive.WithOverwrite(cli.Overwrite),
		unarchive.WithTelemetryHook(hook),
		unarchive.WithUseNativePermissions(!cli.PortablePermissions),
	)
}

// summary returns a hook that prints one line per extraction to out.
func summary(out io.Writer, src string) telemetry.TelemetryHook {
	return func(_ context.Context, d *telemetry.Data) {
		line := fmt.Sprintf("%s: %d files, %d dirs, %d symlinks, %s in %s",
			src, d.ExtractedFiles, d.ExtractedDirs, d.ExtractedSymlinks,
			humanize.IBytes(uint64(max(d.ExtractionSize, 0))), d.ExtractionDuration.Round(time.Millisecond))
		if skipped := d.SelectorMismatches + d.FilteredEntries + d.SkippedUpToDate; skipped > 0 {
			line += fmt.Sprintf(" (%d skipped)", skipped)
		}
		if d.LastExtractionError != nil {
			line += fmt.Sprintf(" (failed: %s)", d.LastExtractionError)
		}
		fmt.Fprintln(out, line)
	}
}
