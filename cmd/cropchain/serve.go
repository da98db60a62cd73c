// Serve command runs the HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/navin-oss/CropChain/internal/api"
	"github.com/navin-oss/CropChain/pkg/cropchain"
	"github.com/navin-oss/CropChain/pkg/types"
)

var flagListenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger("cropchain")

		addr := flagListenAddr
		if addr == "" {
			addr = serveListenAddr()
		}
		dataDir, err := resolveDataDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}
		cfg := types.Config{DataDir: dataDir, ListenAddr: addr}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitUserError)
		}

		svc, store, err := openService()
		if err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}
		defer store.Close()

		server := &http.Server{
			Addr:              addr,
			Handler:           api.NewServer(svc, log).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", addr).Str("version", cropchain.Version).Msg("serving")
			errCh <- server.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintln(os.Stderr, "serve:", err)
				os.Exit(exitSysError)
			}
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintln(os.Stderr, "serve: shutdown:", err)
				os.Exit(exitSysError)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagListenAddr, "listen", "", "listen address (default from config, then "+types.DefaultListenAddr+")")
}

// serveListenAddr reads listen_addr from config.yaml, falling back to the
// built-in default.
func serveListenAddr() string {
	configDir, err := resolveConfigDir()
	if err != nil {
		return types.DefaultListenAddr
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return types.DefaultListenAddr
	}
	if addr := cfg.GetString(cfgKeyListenAddr); addr != "" {
		return addr
	}
	return types.DefaultListenAddr
}

// newLogger builds the console logger used by the server.
func newLogger(app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", app).Logger()
}
