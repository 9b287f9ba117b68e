package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"summit-cli/internal/api"
	"summit-cli/internal/config"
	"summit-cli/internal/observability"
	"summit-cli/internal/tui"
)

const version = "1.0.0"

func main() {
	var configPath string
	var backendURL string

	root := &cobra.Command{
		Use:     "summit",
		Short:   "Terminal client for the Aviation Tech Summit 2025 concierge",
		Long:    "summit is a terminal client for the Aviation Tech Summit 2025 conference concierge.\n\nLog in with your registration ID and chat with the conference agents about sessions, speakers, tracks, seat changes and business networking.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional; a missing .env file is not an error.
			_ = godotenv.Load()

			if configPath == "" {
				configPath = config.DefaultPath()
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if backendURL != "" {
				cfg.BackendURL = backendURL
			}

			log, closeLog, err := observability.Setup(cfg.LogFile, cfg.LogLevel)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}
			defer closeLog()

			client := api.NewClient(cfg.BackendURL, cfg.RequestTimeout.Std(), log)
			log.Info("starting", "version", version, "backend", cfg.BackendURL)

			p := tea.NewProgram(tui.New(client, log), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.Flags().StringVar(&configPath, "config", "", "Path to the config file")
	root.Flags().StringVar(&backendURL, "backend", "", "Backend base URL (overrides config)")

	initCmd := &cobra.Command{
		Use:   "init-config",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(config.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	root.AddCommand(initCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
