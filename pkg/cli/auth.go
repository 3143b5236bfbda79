package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/auth"
	"github.com/harrisonrobin/dosely/pkg/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with Google Calendar",
	Long: `Discards any cached token and runs the browser authorization flow again.
credentials.json from the Google Cloud Console must be in the config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return fmt.Errorf("could not find configuration directory: %w", err)
		}
		if err := auth.RemoveToken(dir); err != nil {
			return fmt.Errorf("could not delete token file, please delete it manually: %w", err)
		}
		if _, err := auth.GetCalendarService(cmd.Context(), dir); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		log.Info().Str("dir", dir).Msg("authentication successful")
		return nil
	},
}

var setCalendarCmd = &cobra.Command{
	Use:   "set-calendar NAME",
	Short: "Set the default Google Calendar name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Calendar = args[0]
		if err := config.Save(cfg, cfgFile); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default calendar set to: %s\n", args[0])
		return nil
	},
}
