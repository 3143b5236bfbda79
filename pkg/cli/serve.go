package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/harrisonrobin/dosely/pkg/api"
	"github.com/harrisonrobin/dosely/pkg/schedule"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve schedules as JSON over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "address to listen on (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(&api.Server{
		Builder:    schedule.NewBuilder(taskSource(st), st),
		Meds:       st,
		Medication: cfg.Medication,
		Owner:      cfg.Owner,
		Location:   loc,
	})

	addr := cfg.Listen
	if listenFlag != "" {
		addr = listenFlag
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return srv.Shutdown(shutdownCtx)
}
