package cmd

import (
	"github.com/spf13/cobra"

	"github.com/thedev09/fintrack/internal/config"
	"github.com/thedev09/fintrack/internal/server"
	"github.com/thedev09/fintrack/internal/store"
)

var (
	serveAddr string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		if serveDB != "" {
			cfg.Database.Path = serveDB
		}

		st, err := store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(st, server.Options{
			Addr:     cfg.Server.Addr,
			USDToINR: cfg.USDToINR(),
			PageSize: cfg.App.PageSize,
		})
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
