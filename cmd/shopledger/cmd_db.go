package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/config"
	"shopledger/internal/jobs"
	applog "shopledger/internal/log"
	"shopledger/internal/repos"
	"shopledger/internal/services"
)

var seedDemo bool

// shopledger migrate: create or update the schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema (idempotent)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if _, err := applog.Init(cfg.Env, cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if seedDemo || cfg.SeedDemo {
			if err := repos.SeedDemo(cmd.Context(), db); err != nil {
				return err
			}
		}
		fmt.Println("schema up to date:", cfg.DBDSN)
		return nil
	},
}

// shopledger sweep: refresh expiry flags once and exit.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Recompute expiry and stock flags for every product once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if _, err := applog.Init(cfg.Env, cfg.LogLevel, cfg.LogFile); err != nil {
			return err
		}
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		stock := services.NewStockService(repos.NewProductRepo(db), cache.Nop{}, clock.Real{})
		sweep := &jobs.ExpirySweep{Stock: stock, Timeout: 5 * time.Minute}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		n, err := sweep.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d product(s) updated\n", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&seedDemo, "seed", false, "also insert the demo shopkeepers")
}
