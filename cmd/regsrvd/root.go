package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hivekit/internal/config"
)

var (
	flagConfigDir string
	flagUserSID   string
	flagArch      string
	flagListen    string
	flagLimits    string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "regsrvd",
	Short: "Serve a hierarchical configuration-tree registry",
	Long: `regsrvd hosts an in-memory, mutable key/value tree modeled on the
Windows registry: symlinks, WoW64 redirection, change notification, and a
WINE-dialect text persistence format, all reachable over a small JSON
request/reply protocol.`,
	Version: "0.1.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "directory holding system.reg/userdef.reg/user.reg (required)")
	rootCmd.PersistentFlags().StringVar(&flagUserSID, "user-sid", "", "current-user SID for the \\REGISTRY\\User\\<sid> branch")
	rootCmd.PersistentFlags().StringVar(&flagArch, "arch", "", "win32 or win64; defaults to $WINEARCH then host pointer width")
	rootCmd.PersistentFlags().StringVar(&flagListen, "listen", "", "transport address, e.g. unix:/tmp/regsrvd.sock or tcp::8455")
	rootCmd.PersistentFlags().StringVar(&flagLimits, "limits", "", "resource-limits profile: default, relaxed, or strict")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug-level logging")
	_ = rootCmd.MarkPersistentFlagRequired("config-dir")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runServe() error {
	log := newLogger()

	cfg, err := config.Resolve(flagConfigDir, flagUserSID, flagArch, flagListen, flagLimits)
	if err != nil {
		return fmt.Errorf("regsrvd: %w", err)
	}

	srv, err := newServer(cfg, log)
	if err != nil {
		return fmt.Errorf("regsrvd: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
