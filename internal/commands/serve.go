package commands

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/heraerp/coa/internal/server"
)

func newServeCommand() *cobra.Command {
	var repoDir string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assignment API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := openWorkspace(repoDir)
			if err != nil {
				return err
			}
			svc, err := ws.service()
			if err != nil {
				return err
			}

			listenAddr := ws.cfg.Server.Addr
			if addr != "" {
				listenAddr = addr
			}

			srv := server.New(svc, ws.log)
			ws.log.Info().Str("addr", listenAddr).Msg("serving assignment API")
			return http.ListenAndServe(listenAddr, srv.Router())
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "workspace directory")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides coa.yaml)")

	return cmd
}
