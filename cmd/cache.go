package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the intelligence cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry count",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := initApp(cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Entries: %d\n", app.Intel.Size())
		fmt.Printf("TTL:     %s\n", cfg.Intel.TTL())
		return nil
	},
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired cache entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := initApp(cfg)
		if err != nil {
			return err
		}
		removed := app.Intel.ClearExpired()
		zap.L().Info("cache: sweep complete", zap.Int("removed", removed))
		fmt.Printf("Removed %d expired entries.\n", removed)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheSweepCmd)
	rootCmd.AddCommand(cacheCmd)
}
