package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetris-duel/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the duel SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the match picker menu and its
own matches. The round history is shared by all sessions and is kept in
memory until the server stops.

Address, host key and idle timeout default to the server: section of
duel.yaml; flags override them.

Examples:
  duel serve                           # Listen on localhost:23234
  duel serve --ssh :2222               # Listen on port 2222
  duel serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := serverConfig()

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Starting duel SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// serverConfig merges the server: section of the config with the flags.
func serverConfig() tui.SSHServerConfig {
	cfg := tui.DefaultSSHServerConfig()
	cfg.TickRate = appConfig.Runtime.TickRate
	cfg.Keys = tui.NewKeyMap(appConfig.Keys)

	if appConfig.Server.Address != "" {
		cfg.Address = appConfig.Server.Address
	}
	if appConfig.Server.HostKey != "" {
		cfg.HostKeyPath = appConfig.Server.HostKey
	}
	if appConfig.Server.IdleTimeout > 0 {
		cfg.IdleTimeout = appConfig.Server.IdleTimeout
	}

	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}
	return cfg
}
