package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docx2jats/internal/server"
	"github.com/pdiddy/docx2jats/internal/store"
	"github.com/pdiddy/docx2jats/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion pipeline over HTTP",
	Long: `Serve starts an HTTP server with POST /api/convert accepting multipart
DOCX uploads and GET /health. Conversions are logged to the sqlite history
database when --history-db is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		historyDB, _ := cmd.Flags().GetString("history-db")
		enrich, _ := cmd.Flags().GetBool("enrich")
		email, _ := cmd.Flags().GetString("email")

		if historyDB == "" {
			historyDB = viper.GetString("history_db")
		}

		cfg := types.ServerConfig{
			Addr:      addr,
			HistoryDB: historyDB,
			Enrichment: types.EnrichmentConfig{
				Enabled:        enrich,
				Email:          email,
				InterCallDelay: time.Second,
			},
		}

		var st *store.Store
		if cfg.HistoryDB != "" {
			var err error
			st, err = store.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, st, os.Stderr)
		srv.Version = version
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().String("history-db", "", "path to sqlite conversion log")
	serveCmd.Flags().Bool("enrich", false, "enrich references by default")
	serveCmd.Flags().String("email", "", "contact email for registry polite pools")

	rootCmd.AddCommand(serveCmd)
}
