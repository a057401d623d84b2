package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/modboot/internal/app"
	"github.com/specialistvlad/modboot/internal/bootstrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes returned through ExitError.
const (
	ExitFailure = 1
	ExitUsage   = 2
	ExitFatal   = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute builds the command tree, parses args and runs the selected command.
// Application output and logs go to outW.
func Execute(ctx context.Context, args []string, outW io.Writer) error {
	root := NewRootCommand(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// RunFunc starts the application with a resolved configuration.
type RunFunc func(ctx context.Context, outW io.Writer, cfg *app.Config) error

// NewRootCommand creates the modboot root command and its subcommands.
func NewRootCommand(outW io.Writer) *cobra.Command {
	return newRootCommand(outW, runApp)
}

func newRootCommand(outW io.Writer, run RunFunc) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "modboot [MODULES_FILE]",
		Short: "Load the modules named in a module list and serve them.",
		Long: `modboot reads a module list (.hcl, .yaml or .xml file, or a directory of
them), instantiates every module it names, binds each module's parameter set
and overlays the values from the settings file.`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configFile, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), outW, cfg)
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	flags := root.Flags()
	flags.StringVar(&configFile, "config", "", "Path to a modboot.yaml config file.")
	flags.StringP("modules-file", "m", app.DefaultModulesFile, "Path to the module list.")
	flags.String("settings-file", app.DefaultSettingsFile, "Path to the HCL settings file. Empty keeps module defaults.")
	flags.Bool("save-settings", false, "Write the effective settings back to the settings file after loading.")
	flags.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	flags.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")

	root.AddCommand(newListCommand(outW))
	return root
}

func newListCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the module identifiers compiled into this binary.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, id := range app.NewCatalog().Identifiers() {
				fmt.Fprintln(outW, id)
			}
			return nil
		},
	}
}

// usageArgs reports positional argument errors with the usage exit code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Message: err.Error()}
		}
		return nil
	}
}

// loadConfig merges defaults, an optional config file, MODBOOT_* environment
// variables and flags, in increasing order of precedence.
func loadConfig(cmd *cobra.Command, configFile string, args []string) (*app.Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("modboot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("conf")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("failed to read config file: %v", err)}
		}
	}

	v.SetEnvPrefix("modboot")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if len(args) > 0 {
		v.Set("modules-file", args[0])
	}

	var raw app.Config
	if err := v.Unmarshal(&raw); err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	raw.LogFormat = strings.ToLower(raw.LogFormat)
	raw.LogLevel = strings.ToLower(raw.LogLevel)

	cfg, err := app.NewConfig(raw)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return cfg, nil
}

func runApp(ctx context.Context, outW io.Writer, cfg *app.Config) error {
	err := app.NewApp(ctx, outW, cfg).Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bootstrap.ErrFatal):
		return &ExitError{Code: ExitFatal, Message: fmt.Sprintf("could not load modules: %v", err)}
	default:
		return &ExitError{Code: ExitFailure, Message: err.Error()}
	}
}
