// Package cli is the dosely command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/config"
	"github.com/harrisonrobin/dosely/pkg/medication"
	"github.com/harrisonrobin/dosely/pkg/orgmode"
	"github.com/harrisonrobin/dosely/pkg/schedule"
	"github.com/harrisonrobin/dosely/pkg/store"
	"github.com/harrisonrobin/dosely/pkg/taskwarrior"
)

var (
	cfgFile    string
	verbose    bool
	sourceFlag string
	medFlag    string
	ownerFlag  string
	dateFlag   string

	cfg     *config.Config
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "dosely",
		Short: "Medication-aware daily schedules",
		Long: `dosely lays today's tasks out from 09:00 so the hardest work lands while
a medication is at its peak, and labels every slot with the focus it can bear.

Schedules can be printed, served as JSON or pushed to Google Calendar.`,
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/dosely/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&sourceFlag, "source", "", "task source: db, taskwarrior or org")
	flags.StringVarP(&medFlag, "medication", "m", "", "medication profile name")
	flags.StringVar(&ownerFlag, "owner", "", "whose tasks to schedule")
	flags.StringVar(&dateFlag, "date", "", "day to schedule, YYYY-MM-DD (default today)")
}

var registerOnce sync.Once

func register() {
	registerOnce.Do(func() {
		rootCmd.AddCommand(scheduleCmd)
		rootCmd.AddCommand(syncCmd)
		rootCmd.AddCommand(authCmd)
		rootCmd.AddCommand(setCalendarCmd)
		rootCmd.AddCommand(serveCmd)
		rootCmd.AddCommand(medicationCmd)
		rootCmd.AddCommand(taskCmd)
		rootCmd.AddCommand(hookCmd)
		rootCmd.AddCommand(configCmd)
	})
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute(version string) error {
	register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func setup(cmd *cobra.Command, args []string) error {
	setupLogging(verbose)

	loaded, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if sourceFlag != "" {
		loaded.Source = sourceFlag
	}
	if medFlag != "" {
		loaded.Medication = medFlag
	}
	if ownerFlag != "" {
		loaded.Owner = ownerFlag
	}
	switch loaded.Source {
	case config.SourceDB, config.SourceTaskwarrior, config.SourceOrg:
	default:
		return fmt.Errorf("unknown task source %q", loaded.Source)
	}
	cfg = loaded
	return nil
}

func setupLogging(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

// today resolves --date in the configured zone, defaulting to the current day.
func today() (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if dateFlag == "" {
		return time.Now().In(loc), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, dateFlag, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", dateFlag)
	}
	return d, nil
}

// openStore opens the configured database and makes sure it holds at least
// the built-in medications plus the configured catalog.
func openStore(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := seedMedications(ctx, st); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func seedMedications(ctx context.Context, st *store.Store) error {
	if cfg.Catalog != "" {
		profiles, err := medication.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			if err := st.UpsertMedication(ctx, p); err != nil {
				return err
			}
		}
	}

	existing, err := st.ListMedications(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	log.Debug().Msg("seeding built-in medication catalog")
	for _, p := range medication.DefaultCatalog() {
		if err := st.UpsertMedication(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// taskSource picks where tasks are read from.
func taskSource(st *store.Store) schedule.TaskStore {
	switch cfg.Source {
	case config.SourceTaskwarrior:
		return taskwarrior.NewClient(cfg.Owner)
	case config.SourceOrg:
		return orgmode.NewSource(cfg.Owner, cfg.OrgFiles)
	}
	return st
}
