package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/okra-platform/greeter/internal/config"
	"github.com/okra-platform/greeter/internal/greeting"
	"github.com/okra-platform/greeter/internal/serve"
	"github.com/okra-platform/greeter/internal/store"
)

// ServeOptions contains command line overrides for the serve command
type ServeOptions struct {
	Port    int
	Shards  int
	Metrics *bool
}

func (o ServeOptions) apply(cfg *config.Config) {
	if o.Port > 0 {
		cfg.Port = o.Port
	}
	if o.Shards > 0 {
		cfg.Shards = o.Shards
	}
	if o.Metrics != nil {
		cfg.Metrics = o.Metrics
	}
}

// ServeDependencies for the serve command
type ServeDependencies struct {
	ConfigLoader   ConfigLoader
	ServerFactory  ServerFactory
	SignalNotifier SignalNotifier
	Output         Output
	Logger         zerolog.Logger
}

// Interfaces for dependency injection
type ConfigLoader interface {
	LoadConfig() (*config.Config, string, error)
	LoadConfigFromPath(path string) (*config.Config, error)
}

type ServerFactory interface {
	NewServer(svc greeting.Service, logger zerolog.Logger, opts ...serve.Option) serve.Server
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig() (*config.Config, string, error) {
	return config.LoadConfig()
}

func (l *defaultConfigLoader) LoadConfigFromPath(path string) (*config.Config, error) {
	return config.LoadConfigFromPath(path)
}

type defaultServerFactory struct{}

func (f *defaultServerFactory) NewServer(svc greeting.Service, logger zerolog.Logger, opts ...serve.Option) serve.Server {
	return serve.NewServer(svc, logger, opts...)
}

// ServeCommand runs the greeting HTTP server
type ServeCommand struct {
	flags *Flags
	deps  ServeDependencies
}

// NewServeCommand creates a new serve command with default dependencies
func NewServeCommand(flags *Flags) *ServeCommand {
	return &ServeCommand{
		flags: flags,
		deps: ServeDependencies{
			ConfigLoader:   &defaultConfigLoader{},
			ServerFactory:  &defaultServerFactory{},
			SignalNotifier: &defaultSignalNotifier{},
			Output:         &defaultOutput{},
			Logger:         log.Logger,
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (sc *ServeCommand) WithDependencies(deps ServeDependencies) *ServeCommand {
	sc.deps = deps
	return sc
}

func (c *Controller) Serve(ctx context.Context, opts ServeOptions) error {
	return NewServeCommand(c.Flags).Execute(ctx, opts)
}

// Execute runs the serve command until a signal arrives or ctx is cancelled
func (sc *ServeCommand) Execute(ctx context.Context, opts ServeOptions) error {
	cfg, configPath, err := sc.loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	sc.applyLogLevel(cfg)

	users, err := store.NewShardedStore[greeting.UserData](cfg.Shards)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	svc := greeting.NewService(users, greeting.WithLogger(sc.deps.Logger))

	var serverOpts []serve.Option
	if cfg.MetricsEnabled() {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		serverOpts = append(serverOpts, serve.WithMetrics(reg))
	}
	server := sc.deps.ServerFactory.NewServer(svc, sc.deps.Logger, serverOpts...)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if configPath != "" {
		watcher, err := config.NewWatcher(configPath, sc.deps.Logger, sc.applyLogLevel)
		if err != nil {
			return fmt.Errorf("failed to watch config: %w", err)
		}
		watchDone := make(chan struct{})
		defer func() {
			cancel()
			<-watchDone
			watcher.Close()
		}()

		go func() {
			defer close(watchDone)
			if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				sc.deps.Logger.Warn().Err(err).Msg("config watcher stopped")
			}
		}()
		sc.deps.Output.Printf("Using config %s\n", configPath)
	}

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	sc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer sc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			sc.deps.Output.Printf("\nReceived signal %v, shutting down...\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sc.deps.Output.Printf("Starting greeting server on port %d...\n", cfg.Port)
	if err := server.Start(ctx, cfg.Port); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}

	sc.deps.Output.Println("Serve shutdown complete")
	return nil
}

func (sc *ServeCommand) loadConfig() (*config.Config, string, error) {
	if sc.flags != nil && sc.flags.ConfigPath != "" {
		cfg, err := sc.deps.ConfigLoader.LoadConfigFromPath(sc.flags.ConfigPath)
		if err != nil {
			return nil, "", err
		}
		return cfg, sc.flags.ConfigPath, nil
	}

	cfg, path, err := sc.deps.ConfigLoader.LoadConfig()
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// applyLogLevel applies the configured level unless one was given on the command line
func (sc *ServeCommand) applyLogLevel(cfg *config.Config) {
	if sc.flags != nil && sc.flags.LogLevel != "" {
		return
	}
	level, err := cfg.Level()
	if err != nil {
		sc.deps.Logger.Warn().Err(err).Msg("keeping current log level")
		return
	}
	zerolog.SetGlobalLevel(level)
}
