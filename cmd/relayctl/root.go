package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"room-relay/client"

	"github.com/gookit/color"
	"github.com/spf13/cobra"
)

var (
	flagAddr  string
	flagToken string
)

var rootCmd = &cobra.Command{
	Use:   "relayctl",
	Short: "Manage rooms and chat through a room relay",
	Long: `relayctl talks to a running relay: it creates and deletes rooms, manages
accounts and opens interactive chat sessions.

RELAY_ADDR and RELAY_TOKEN are read from the environment, flags take precedence.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "relay address (default $RELAY_ADDR or localhost:8080)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token (default $RELAY_TOKEN)")
	rootCmd.AddCommand(roomsCmd, chatCmd, registerCmd, loginCmd, inspectCmd)
}

// Execute runs the command line and exits on failure.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		color.Error.Println(err.Error())
		os.Exit(1)
	}
}

func loadConfig() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	return cfg, nil
}

func newClient() (*client.Client, Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, Config{}, err
	}
	c, err := client.New(cfg.Addr, cfg.Token)
	return c, cfg, err
}
