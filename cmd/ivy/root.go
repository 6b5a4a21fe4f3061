package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ivylang/ivy"
	"github.com/ivylang/ivy/vm"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configName = ".ivy"

// cli holds the state shared by every subcommand: the configuration read
// from flags, environment and config file, and the logger built from it.
type cli struct {
	config *viper.Viper
	logger zerolog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{config: viper.New(), logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "ivy",
		Short:         "Compile and run Ivy programs",
		Long:          "Ivy is a small integer language compiled to bytecode and run on a stack machine.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.ivy.yaml)")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")
	flags.Int("max-stack", vm.DefaultMaxStackDepth, "maximum operand stack depth")
	flags.Int("max-locals", vm.DefaultMaxLocals, "maximum number of local slots")
	flags.Int64("step-limit", 0, "stop after this many instructions (0 means no limit)")
	flags.Bool("trace", false, "log every executed instruction")
	if err := c.config.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(
		c.analyzeCommand(),
		c.compileCommand(),
		c.executeCommand(),
		c.runCommand(),
		c.disCommand(),
		c.astCommand(),
		c.replCommand(),
		versionCommand(),
	)
	return root
}

// loadConfig merges the config file and IVY_* environment variables under
// the command line flags, then applies the global settings.
func (c *cli) loadConfig(cmd *cobra.Command) error {
	if path := c.config.GetString("config"); path != "" {
		c.config.SetConfigFile(path)
	} else {
		home, err := homedir.Dir()
		if err == nil {
			c.config.AddConfigPath(home)
		}
		c.config.SetConfigName(configName)
		c.config.SetConfigType("yaml")
	}
	c.config.SetEnvPrefix("ivy")
	c.config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.config.AutomaticEnv()

	if err := c.config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if c.config.GetBool("no-color") {
		color.NoColor = true
	}

	level, err := zerolog.ParseLevel(c.config.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", c.config.GetString("log-level"))
	}
	c.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     cmd.ErrOrStderr(),
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	if used := c.config.ConfigFileUsed(); used != "" {
		c.logger.Debug().Str("path", used).Msg("loaded config")
	}
	return nil
}

// ivyOptions translates the configuration into options for compiling and
// running a program. Print output goes to the command's stdout.
func (c *cli) ivyOptions(cmd *cobra.Command) []ivy.Option {
	opts := []ivy.Option{
		ivy.WithOutput(cmd.OutOrStdout()),
		ivy.WithLogger(c.logger),
		ivy.WithMaxStackDepth(c.config.GetInt("max-stack")),
		ivy.WithMaxLocals(c.config.GetInt("max-locals")),
		ivy.WithStepLimit(c.config.GetInt64("step-limit")),
	}
	if c.config.GetBool("trace") {
		tracer := vm.NewLogObserver(c.logger.Level(zerolog.DebugLevel))
		opts = append(opts, ivy.WithObserver(tracer))
	}
	return opts
}
