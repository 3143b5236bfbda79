package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/colors"
	"github.com/harrisonrobin/dosely/pkg/config"
	"github.com/harrisonrobin/dosely/pkg/google"
	"github.com/harrisonrobin/dosely/pkg/index"
	"github.com/harrisonrobin/dosely/pkg/schedule"
)

var calendarFlag string

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push today's schedule to Google Calendar",
	Long: `Builds today's schedule and mirrors it into a Google calendar: new slots
are created, moved slots are patched in place and slots that left the
schedule are deleted.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&calendarFlag, "calendar", "", "Google Calendar name to sync with (overrides config)")
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	day, err := today()
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := schedule.NewBuilder(taskSource(st), st).Build(ctx, cfg.Medication, cfg.Owner, day)
	if err != nil {
		return err
	}

	palette, err := colors.FromConfig(cfg.Colors)
	if err != nil {
		return err
	}
	dir, err := config.Dir()
	if err != nil {
		return err
	}
	evtIndex, err := index.NewEventIndex(dir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize event index")
		evtIndex = nil
	}

	calendarName := cfg.Calendar
	if calendarFlag != "" {
		calendarName = calendarFlag
	}
	client, err := google.NewClient(ctx, dir, calendarName, evtIndex, palette)
	if err != nil {
		return fmt.Errorf("error creating Google Calendar client: %w", err)
	}

	res, syncErr := client.SyncSchedule(ctx, cfg.Owner, day, events)
	if evtIndex != nil {
		if err := evtIndex.Save(); err != nil {
			log.Warn().Err(err).Msg("failed to save event index")
		}
	}
	if syncErr != nil {
		return syncErr
	}

	log.Info().
		Str("calendar", calendarName).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("unchanged", res.Unchanged).
		Int("deleted", res.Deleted).
		Msg("schedule synced")
	return nil
}
