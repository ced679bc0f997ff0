package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/cli"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Starts an interactive assistant session on the terminal, with live streamed replies.`,
	Run: func(cmd *cobra.Command, args []string) {
		scriptPath, _ := cmd.Flags().GetString("script")
		key, _ := cmd.Flags().GetString("session")
		plain, _ := cmd.Flags().GetBool("plain")
		backend, path, addr, db := storeConfigFromFlags(cmd)

		err := cli.RunChat(cli.ChatConfig{
			ScriptPath: scriptPath,
			SessionKey: key,
			Plain:      plain,
			Store: cli.StoreConfig{
				Backend:   backend,
				Path:      path,
				RedisAddr: addr,
				RedisDB:   db,
			},
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().String("session", "", "Session key for snapshot persistence")
	chatCmd.Flags().Bool("plain", false, "Disable the TUI and use plain line-based IO")

	// Make 'chat' the default if no command is provided.
	rootCmd.Run = chatCmd.Run
}
