package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/cli"
	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/internal/metrics"
	httpadapter "github.com/aretw0/parley/pkg/adapters/http"
	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/demo"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/script"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the engine in server mode, exposing per-session conversations over a JSON API with SSE event streams.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		scriptPath, _ := cmd.Flags().GetString("script")
		backend, path, addr, db := storeConfigFromFlags(cmd)

		logger := logging.New(slog.LevelInfo)

		graph, err := loadServeGraph(scriptPath)
		if err != nil {
			fmt.Printf("Error loading script: %v\n", err)
			os.Exit(1)
		}

		store, err := cli.BuildStore(cli.StoreConfig{
			Backend:   backend,
			Path:      path,
			RedisAddr: addr,
			RedisDB:   db,
		})
		if err != nil {
			fmt.Printf("Error building store: %v\n", err)
			os.Exit(1)
		}

		m := metrics.New()
		server := httpadapter.NewServer(
			func(sessionID string, obs domain.Observer) (*conversation.Controller, error) {
				return conversation.New(graph,
					conversation.WithStore(store, sessionID),
					conversation.WithLogger(logger),
					conversation.WithObserver(obs),
					conversation.WithObserver(m.Observer()),
				)
			},
			httpadapter.WithLogger(logger),
			httpadapter.WithMetricsHandler(m.Handler()),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: server.Handler(),
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Parley Server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Parley Server stopped gracefully")
		}
	},
}

func loadServeGraph(path string) (*domain.ScriptGraph, error) {
	if path == "" {
		return demo.SO436Graph()
	}
	return script.LoadFile(path)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
