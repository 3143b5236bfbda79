package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/medication"
)

var medicationCmd = &cobra.Command{
	Use:     "medication",
	Aliases: []string{"med"},
	Short:   "Manage medication profiles",
}

var medicationImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import or update profiles from a YAML catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		profiles, err := medication.LoadCatalog(args[0])
		if err != nil {
			return err
		}
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		for _, p := range profiles {
			if err := st.UpsertMedication(ctx, p); err != nil {
				return err
			}
			if problems := medication.CheckOrdering(p); len(problems) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", p.Name, problems)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d medication(s)\n", len(profiles))
		return nil
	},
}

var medicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.ListMedications(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tTYPE\tTREATS\tRAMP-UP\tPEAK END\tMEDIUM\tEASY")
		for _, p := range profiles {
			e := medication.EntryFor(p)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s-%s\t%s-%s\n",
				e.Name, e.Type, e.Treats, e.RampUp, e.PeakEnd,
				e.PostPeakMediumStart, e.PostPeakMediumEnd,
				e.PostPeakEasyStart, e.PostPeakEasyEnd)
		}
		return tw.Flush()
	},
}

func init() {
	medicationCmd.AddCommand(medicationImportCmd)
	medicationCmd.AddCommand(medicationListCmd)
}
