package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley is a scripted conversational assistant engine",
	Long:  `Parley runs authored script graphs as paced conversations: fuzzy matching, a thinking pause, and word-by-word streamed replies.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("script", "", "Path to a YAML script (defaults to the built-in demo corpus)")
	rootCmd.PersistentFlags().String("store", "memory", "Snapshot store backend: memory, file or redis")
	rootCmd.PersistentFlags().String("store-path", "", "Directory for the file store backend")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Address for the redis store backend")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Database for the redis store backend")
}

// storeConfigFromFlags reads the persistent store flags.
func storeConfigFromFlags(cmd *cobra.Command) (backend, path, addr string, db int) {
	backend, _ = cmd.Flags().GetString("store")
	path, _ = cmd.Flags().GetString("store-path")
	addr, _ = cmd.Flags().GetString("redis-addr")
	db, _ = cmd.Flags().GetInt("redis-db")
	return
}
