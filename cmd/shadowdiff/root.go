package main

import (
	"io"

	"github.com/joeycumines/go-shadowtree/mounting"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/spf13/cobra"
)

// app is the state shared by the commands, resolved before each runs.
type app struct {
	logger     *logiface.Logger[logiface.Event]
	configFile string
	flags      config
	cfg        config
	mode       mounting.Mode
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := new(app)

	rootCmd := &cobra.Command{
		Use:   `shadowdiff`,
		Short: `Calculate shadow tree mutations`,
		Long: `shadowdiff loads shadow tree snapshots from YAML fixture files, and
prints the mutations that transform the views mounted for one into the views
mounted for another.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	defaults := defaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, `config`, ``, `YAML config file`)
	flags.StringVar(&a.flags.LogLevel, `log-level`, defaults.LogLevel, `log level, written to stderr`)
	flags.StringVar(&a.flags.Mode, `mode`, defaults.Mode, `differentiator mode (optimized-moves or classic)`)

	rootCmd.AddCommand(newDiffCmd(a), newTreeCmd(a))

	return rootCmd
}

func (x *app) init(cmd *cobra.Command, _ []string) error {
	x.cfg = defaultConfig()
	if x.configFile != `` {
		if err := loadConfig(x.configFile, &x.cfg); err != nil {
			return err
		}
	}

	f := cmd.Flags()
	if f.Changed(`log-level`) {
		x.cfg.LogLevel = x.flags.LogLevel
	}
	if f.Changed(`mode`) {
		x.cfg.Mode = x.flags.Mode
	}
	if f.Changed(`output`) {
		x.cfg.Output = x.flags.Output
	}
	if f.Changed(`verify`) {
		x.cfg.Verify = x.flags.Verify
	}

	level, mode, err := x.cfg.validate()
	if err != nil {
		return err
	}
	x.mode = mode
	x.logger = newLogger(cmd.ErrOrStderr(), level)

	x.logger.Debug().
		Str(`mode`, mode.String()).
		Str(`output`, x.cfg.Output).
		Log(`resolved config`)

	return nil
}

func newLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

func (x *app) differentiator() *mounting.Differentiator {
	return &mounting.Differentiator{Logger: x.logger, Mode: x.mode}
}
