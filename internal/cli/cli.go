package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/config"
	"github.com/mbriand/rdvwatch/internal/logger"
	"github.com/mbriand/rdvwatch/internal/notifier"
	"github.com/mbriand/rdvwatch/internal/source"
	"github.com/mbriand/rdvwatch/internal/storage"
	"github.com/mbriand/rdvwatch/internal/telegram"
)

// fetchPhaseTimeout bounds the whole fetch phase so a hung page render
// cannot stall the run forever.
const fetchPhaseTimeout = 5 * time.Minute

var (
	flagWindow          int
	flagPrintOnly       bool
	flagStatePath       string
	flagCatalog         string
	flagNotifyWhenEmpty bool
	flagVerbose         bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rdvwatch",
		Short: "Watch French medical listing pages for appointment openings",
		Long: `rdvwatch checks medical-appointment listing pages for slots opening
within a rolling window of days and sends a Telegram message only when the
set of available appointments changed since the last notified run.`,
		RunE: runCheck,
	}

	cmd.Flags().IntVar(&flagWindow, "window", 0, "Override the window in days (default from WINDOW_DAYS, 14)")
	cmd.Flags().BoolVar(&flagPrintOnly, "print-only", false, "Print the message instead of sending it to Telegram")
	cmd.Flags().StringVar(&flagStatePath, "state", "", "Override the snapshot state file path")
	cmd.Flags().StringVar(&flagCatalog, "sources", "", "YAML source catalogue (default: built-in Doctolib catalogue)")
	cmd.Flags().BoolVar(&flagNotifyWhenEmpty, "notify-when-empty", false, "Send a message even when nothing is available and nothing was before")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	cfg, err := config.Load(flagCatalog)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if flagWindow > 0 {
		cfg.WindowDays = flagWindow
	}
	if flagStatePath != "" {
		cfg.StatePath = flagStatePath
	}
	if flagNotifyWhenEmpty {
		cfg.NotifyWhenEmpty = true
	}

	store, err := storage.New(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("initializing state store: %w", err)
	}

	var deliver notifier.Notifier
	if flagPrintOnly {
		deliver = notifier.NewConsoleNotifier()
	} else {
		deliver = notifier.New(cfg.BotToken, cfg.ChatID)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), fetchPhaseTimeout)
	defer cancel()

	return run(ctx, cfg, time.Now(), store, source.Build(cfg.Catalog.Sources), deliver, os.Stdout)
}

// run executes one watch cycle: fetch every source, extract and combine
// availability, diff against the persisted snapshot, and notify and persist
// only when something changed.
func run(ctx context.Context, cfg *config.Config, now time.Time, store *storage.Store, sources []source.Source, deliver notifier.Notifier, out io.Writer) error {
	perSource, err := source.FetchAll(ctx, sources)
	if err != nil {
		return fmt.Errorf("fetching listings: %w", err)
	}

	now = now.In(cfg.Timezone)

	var records []availability.Record
	for i, cards := range perSource {
		recs, report := availability.Extract(cards, now, cfg.Window(), cfg.Timezone)
		logger.Info("source extracted", logger.Fields{
			"source":  sources[i].Tag(),
			"total":   report.Total,
			"kept":    report.Kept,
			"skipped": report.Skipped,
		})
		logger.AddCounter("cards.kept", int64(report.Kept))
		for reason, n := range report.Skipped {
			logger.AddCounter("cards.skipped."+string(reason), int64(n))
		}
		records = append(records, recs...)
	}
	availability.SortRecords(records)

	for _, r := range records {
		fmt.Fprintf(out, "%s  %s  %s\n",
			r.Timestamp.In(cfg.Timezone).Format("2006-01-02 15:04"), r.ProviderName, r.URL)
	}

	previous := store.Load()
	current := availability.Canonicalize(records, cfg.Timezone)
	diff := availability.Diff(previous, current)

	if !telegram.ShouldNotify(previous, current, diff, cfg.NotifyWhenEmpty) {
		logger.Info("no change since last notified run", logger.Fields{"entries": len(current)})
		return nil
	}

	logger.Info("availability changed", logger.Fields{
		"added":   len(diff.Added),
		"removed": len(diff.Removed),
	})

	hdr := telegram.Header{
		Label:      cfg.Catalog.Label,
		City:       cfg.Catalog.City,
		WindowDays: cfg.WindowDays,
	}
	if err := deliver.Notify(telegram.Format(records, hdr, cfg.Timezone)); err != nil {
		logger.Error("notification delivery failed", logger.Fields{"error": err.Error()})
	}
	if err := store.Save(current); err != nil {
		logger.Error("snapshot persist failed, next run re-diffs against the previous state", logger.Fields{
			"error": err.Error(),
		})
	}
	logger.Info("run complete", logger.MetricsSnapshot())
	return nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
