package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/greeter/internal/config"
)

type InitOptions struct {
	Port     int
	LogLevel string
	Format   string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	path := configFileName(options.Format)
	if _, err := ic.filesystem.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := &config.Config{
		Port:     options.Port,
		LogLevel: options.LogLevel,
		Shards:   config.DefaultShardCount,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid init options: %w", err)
	}

	data, err := config.Encode(options.Format, cfg)
	if err != nil {
		return err
	}

	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ic.output.Printf("Created %s\n", path)
	return nil
}

func configFileName(format string) string {
	return "greeter." + format
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	port := strconv.Itoa(config.DefaultPort)
	logLevel := config.DefaultLogLevel
	format := "json"

	form := ic.createInitForm(&port, &logLevel, &format)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", port, err)
	}

	return &InitOptions{
		Port:     portNum,
		LogLevel: logLevel,
		Format:   format,
	}, nil
}

func (ic *InitCommand) createInitForm(port, logLevel, format *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Port").
				Description("Port the greeting server listens on").
				Value(port).
				Validate(validatePort),

			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Info", "info"),
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(logLevel),

			huh.NewSelect[string]().
				Title("Format").
				Description("Config file format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
					huh.NewOption("TOML", "toml"),
				).
				Value(format).
				Validate(func(s string) error {
					if _, err := ic.filesystem.Stat(configFileName(s)); err == nil {
						return fmt.Errorf("%s already exists", configFileName(s))
					}
					return nil
				}),
		),
	)
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}
