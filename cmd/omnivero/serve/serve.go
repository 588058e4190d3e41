// Package servecmder provides the serve command for running the HTTP API
// and MCP server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/omniverolabs/omnivero/api"
	"github.com/omniverolabs/omnivero/cmd/omnivero/wiring"
	"github.com/omniverolabs/omnivero/pkg/config"
	"github.com/omniverolabs/omnivero/pkg/logger"
)

type ServeCommander struct {
	listen     string
	sqlitePath string
	stub       bool
	debug      bool
	configDir  string
	logger     *zap.Logger
}

// serveFlags defines the flags the serve command binds into the config
// precedence chain (flag > env > config file > default).
var serveFlags = config.FlagSet{
	config.FlagAPIListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "api.listen",
		Description: "Address to listen on",
	},
	config.FlagSQLite: {
		Name:        "sqlite",
		Shorthand:   "s",
		ViperKey:    "storage.sqlite_path",
		Description: "Path to the SQLite database",
	},
}

const serveLongDesc string = `Run the omnivero server.

The server exposes the REST API and the MCP endpoint on one listener:
instrument analysis, archive queries, memory curation, trust drafting,
and semantic search. Components are wired from the persistent
configuration; flags and OMNIVERO_ environment variables override
individual settings.

Examples:
  omnivero serve
  omnivero serve --listen :9090
  omnivero serve --stub`

const serveShortDesc string = "Run the omnivero server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, serveFlags, []string{
				config.FlagAPIListen,
				config.FlagSQLite,
			})
			cmder.listen = v.GetString("api.listen")
			cmder.sqlitePath = v.GetString("storage.sqlite_path")

			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, serveFlags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, serveFlags, config.FlagSQLite, &cmder.sqlitePath)
	cmd.Flags().BoolVar(&cmder.stub, "stub", false, "Serve canned engine responses instead of live calls")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	cfg, err := wiring.LoadConfig(c.configDir)
	if err != nil {
		return err
	}

	archiver, err := wiring.NewArchiveDriver(cmd.Context(), cfg, c.sqlitePath, c.configDir)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer archiver.Close()

	engrams, err := wiring.NewEngramStore(cfg, c.sqlitePath, c.configDir)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	if engrams != nil {
		defer engrams.Close()
	}

	extractor, err := wiring.NewExtractor(cfg, c.stub)
	if err != nil {
		return err
	}

	drafter, err := wiring.NewDrafter(cfg, c.stub)
	if err != nil {
		return err
	}

	vectorDriver, embedder, err := wiring.NewSearchStack(cfg, c.configDir, c.logger)
	if err != nil {
		c.logger.Warn("semantic search unavailable", zap.Error(err))
	}
	if vectorDriver != nil {
		defer vectorDriver.Close()
	}

	apiConfig := api.Config{
		ListenAddr:   c.listen,
		Extractor:    extractor,
		Drafter:      drafter,
		VectorDriver: vectorDriver,
		Embedder:     embedder,
	}

	server, err := api.NewServer(apiConfig, archiver, engrams, c.logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	c.logger.Info("starting server",
		zap.String("listen", c.listen),
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("memory", engrams != nil),
		zap.Bool("search", vectorDriver != nil && embedder != nil),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}
