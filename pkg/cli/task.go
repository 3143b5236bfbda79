package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/model"
)

var (
	taskEase        string
	taskPriority    string
	taskDuration    int
	taskDescription string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks in the dosely database",
}

var taskAddCmd = &cobra.Command{
	Use:   "add TITLE...",
	Short: "Add a task for --date (default today)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := today()
		if err != nil {
			return err
		}
		ease, err := model.ParseEase(taskEase)
		if err != nil {
			return err
		}
		prio, err := model.ParsePriority(taskPriority)
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		t, err := st.AddTask(ctx, model.Task{
			Owner:       cfg.Owner,
			Title:       strings.Join(args, " "),
			Description: taskDescription,
			Date:        day,
			Duration:    taskDuration,
			Ease:        ease,
			Priority:    prio,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %s on %s\n", t.ID, model.DayKey(t.Date))
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tasks the schedule would use",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		tasks, err := taskSource(st).FindTasks(ctx, cfg.Owner, day)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tHOURS\tEASE\tPRIORITY\tTITLE")
		for _, t := range tasks {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", t.ID, t.Duration, t.Ease, t.Priority, t.Title)
		}
		return tw.Flush()
	},
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"remove"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		return st.DeleteTask(ctx, args[0])
	},
}

func init() {
	taskAddCmd.Flags().StringVarP(&taskEase, "ease", "e", "easy", "easy, medium or difficult")
	taskAddCmd.Flags().StringVarP(&taskPriority, "priority", "p", "non-urgent", "non-urgent, semi-urgent, urgent or now")
	taskAddCmd.Flags().IntVarP(&taskDuration, "duration", "d", 1, "estimated hours")
	taskAddCmd.Flags().StringVar(&taskDescription, "description", "", "notes shown on the calendar event")

	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskRemoveCmd)
}
