// Package cmd wires configuration, logging and storage into the grocerystore
// command line.
package cmd

import (
	"fmt"
	"os"

	"grocerystore/config"
	"grocerystore/db"
	"grocerystore/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every subcommand needs once the root pre-run has finished.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

var env app

var rootCmd = &cobra.Command{
	Use:           "grocerystore",
	Short:         "Grocery store catalog and cart backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return env.setup()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, userCmd, catalogCmd, productCmd)
	// finalizers run even when RunE fails
	cobra.OnFinalize(env.close)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	a.cfg = config.LoadEnv()

	log, err := logger.New(a.cfg.Logger, a.cfg.IsDevelopment())
	if err != nil {
		return err
	}
	a.log = log

	conn, err := db.InitDatabase(a.cfg.Database, a.log)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	a.db = conn
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
		a.db = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
