package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"apptrack.local/internal/api"
	"apptrack.local/internal/config"
	"apptrack.local/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "apptrack: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var dataFile string

	cmd := &cobra.Command{
		Use:          "apptrack",
		Short:        "Job application tracker",
		Long:         `apptrack keeps job applications, interviews, and deadlines in one CSV-backed table and serves them over HTTP.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&dataFile, "data", "", "CSV data file (overrides APPTRACK_DATA)")

	cmd.AddCommand(newServeCommand(&dataFile))
	cmd.AddCommand(newExportCommand(&dataFile))
	return cmd
}

func newServeCommand(dataFile *string) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if *dataFile != "" {
				cfg.DataFile = *dataFile
			}
			if port != "" {
				cfg.Port = port
			}

			st := store.New(cfg.DataFile)
			apps, err := st.Load()
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			log.Println("=== apptrack startup ===")
			log.Println("Data file:    ", cfg.DataFile)
			log.Println("Records:      ", len(apps))
			log.Println("HTTP port:    ", cfg.Port)
			log.Println("========================")

			s := api.New(st, apps)
			addr := ":" + cfg.Port
			log.Println("HTTP listening on", addr)
			return s.Listen(addr)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	return cmd
}

func newExportCommand(dataFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "export [output]",
		Short: "Write the full table as CSV to a file, or stdout with no argument",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if *dataFile != "" {
				cfg.DataFile = *dataFile
			}

			apps, err := store.New(cfg.DataFile).Load()
			if err != nil {
				return fmt.Errorf("load data: %w", err)
			}

			out := os.Stdout
			if len(args) == 1 {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return store.WriteCSV(out, apps)
		},
	}
}
