package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mastercactapus/polargraph/config"
	"github.com/mastercactapus/polargraph/gcode"
	"github.com/mastercactapus/polargraph/machine/marlin"
)

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "polargraph [program.gcode]",
		Short: "Stream G-code to a Polargraph plotter",
		Long: `Streams a G-code program (from a file or stdin) to a Marlin Polargraph
controller one command at a time, then parks the pen and turns the motors off.

Interrupt (Ctrl-C) sends an emergency stop.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	d := config.Defaults()
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	cmd.Flags().StringP("port", "p", d.Port, "serial device path (env "+config.EnvPrefix+"_PORT)")
	cmd.Flags().IntP("baud", "b", d.Baud, "baud rate (env "+config.EnvPrefix+"_BAUD)")
	cmd.Flags().Duration("read-timeout", d.ReadTimeout, "serial read timeout")
	cmd.Flags().Int("line-buffer", d.LineBuffer, "device line buffer size in bytes; lines must be shorter than this")
	cmd.Flags().BoolP("verbose", "v", false, "log every line sent and received")

	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	_ = v.BindPFlag("baud", cmd.Flags().Lookup("baud"))
	_ = v.BindPFlag("read_timeout", cmd.Flags().Lookup("read-timeout"))
	_ = v.BindPFlag("line_buffer", cmd.Flags().Lookup("line-buffer"))
	_ = v.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd.ErrOrStderr(), false)

		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			log.Error().Err(err).Msg("config")
			return err
		}
		log = newLogger(cmd.ErrOrStderr(), cfg.Verbose)

		err = run(cmd, cfg, args, log)
		if err != nil {
			log.Error().Err(err).Msg("run failed")
		}
		return err
	}

	return cmd
}

func run(cmd *cobra.Command, cfg config.Config, args []string, log zerolog.Logger) error {
	src := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open program: %w", err)
		}
		defer f.Close()
		src = f
	}

	log.Info().Str("port", cfg.Port).Int("baud", cfg.Baud).Msg("connecting")
	port, err := marlin.OpenSerial(cfg.Port, cfg.Baud, cfg.ReadTimeout)
	if err != nil {
		return err
	}
	defer port.Close()
	log.Info().Msg("connected")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	conn := marlin.NewConn(port, cfg.LineBuffer, log)
	return conn.Run(cmd.Context(), gcode.NewProgram(src), sig)
}
