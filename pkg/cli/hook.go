package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/model"
	"github.com/harrisonrobin/dosely/pkg/taskwarrior"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Taskwarrior on-add/on-modify hook",
	Long: `Install as ~/.task/hooks/on-add-dosely and on-modify-dosely. The hook echoes
the task back to Taskwarrior at once and re-syncs every affected day from a
detached background process.`,
	Hidden: true,
	RunE:   runHook,
}

func runHook(cmd *cobra.Command, args []string) error {
	client := taskwarrior.NewClient(cfg.Owner)
	twTasks, err := client.ParseTasks(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("error parsing tasks from stdin: %w", err)
	}
	if len(twTasks) == 0 {
		return nil
	}

	// Taskwarrior expects the final task state on stdout.
	if err := json.NewEncoder(cmd.OutOrStdout()).Encode(twTasks[len(twTasks)-1]); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	days := affectedDays(twTasks, loc)
	if len(days) == 0 {
		return nil
	}
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not find self: %w", err)
	}
	for _, day := range days {
		bg := exec.Command(self, "sync", "--source", "taskwarrior", "--date", day)
		bg.Stdout = nil
		bg.Stderr = nil
		if err := bg.Start(); err != nil {
			log.Error().Err(err).Str("day", day).Msg("could not start background sync")
			continue
		}
		if err := bg.Process.Release(); err != nil {
			log.Debug().Err(err).Msg("release background sync")
		}
	}
	return nil
}

// affectedDays returns the distinct days the hook's tasks were or are planned for.
func affectedDays(tasks []taskwarrior.Task, loc *time.Location) []string {
	seen := make(map[string]bool)
	var days []string
	for _, t := range tasks {
		d, ok := t.Day()
		if !ok {
			continue
		}
		key := model.DayKey(d.In(loc))
		if !seen[key] {
			seen[key] = true
			days = append(days, key)
		}
	}
	return days
}
