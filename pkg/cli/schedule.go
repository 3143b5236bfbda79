package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/model"
	"github.com/harrisonrobin/dosely/pkg/schedule"
)

var scheduleJSON bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print today's medication-aware schedule",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleJSON, "json", false, "print the schedule as JSON")
}

func runSchedule(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if scheduleJSON {
		if events == nil {
			events = []model.ScheduledEvent{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	profile, err := st.FindMedication(ctx, cfg.Medication)
	if err != nil {
		return err
	}
	printWindows(out, profile, schedule.Windows(schedule.DayStart(day), profile))
	return printEvents(out, events)
}

func printWindows(w io.Writer, p model.MedicationProfile, win schedule.PhaseWindows) {
	const clock = "15:04"
	fmt.Fprintf(w, "%s (%s, %s)\n", p.Name, p.Type, p.Treats)
	fmt.Fprintf(w, "  ramp-up  %s-%s\n", win.Anchor.Format(clock), win.RampUpEnd.Format(clock))
	fmt.Fprintf(w, "  peak     until %s\n", win.PeakEnd.Format(clock))
	fmt.Fprintf(w, "  medium   %s-%s\n", win.MediumStart.Format(clock), win.MediumEnd.Format(clock))
	fmt.Fprintf(w, "  easy     %s-%s\n\n", win.EasyStart.Format(clock), win.EasyEnd.Format(clock))
}

func printEvents(w io.Writer, events []model.ScheduledEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "Nothing scheduled.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tFOCUS\tBUCKET\tTASK")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ev.StartClock(), ev.EndClock(), ev.Ease, ev.Bucket, ev.Title)
	}
	return tw.Flush()
}
