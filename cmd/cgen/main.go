// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command cgen renders C headers and sources from YAML, JSON or TOML
// descriptions, or from Go type declarations.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/petar-djukic/cgen/internal/logging"
	"github.com/petar-djukic/cgen/internal/verify"
)

const version = "0.1.0"

// app carries state shared by the subcommands.
type app struct {
	v      *viper.Viper
	log    *zap.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	root := newRootCmd(a)

	err := root.Execute()
	if a.log != nil {
		_ = a.log.Sync()
	}
	if err != nil {
		printError(a.stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	a.v = viper.New()

	rootCmd := &cobra.Command{
		Use:           "cgen",
		Short:         "Generate C declarations",
		Long:          "cgen renders C headers and sources from declarative descriptions or Go types, checks them, and writes them in place.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	// Global flags.
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default .cgen.yaml in the working directory)")
	pf.CountP("verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	pf.Bool("log-json", false, "Log as JSON")
	pf.Bool("strict", false, "Fail on validation or syntax problems instead of warning")
	pf.Bool("compile", false, "Verify the output with a C compiler")
	pf.String("cc", "cc", "C compiler used by --compile")
	pf.StringSlice("cflags", nil, "Extra compiler flags, e.g. -std=c11")
	pf.Duration("cc-timeout", verify.DefaultTimeout, "Timeout for one compiler run")
	pf.Bool("allow-dirty", false, "Overwrite generated files that have uncommitted changes")

	for _, name := range []string{"verbose", "log-json", "strict", "compile", "cc", "cflags", "cc-timeout", "allow-dirty"} {
		_ = a.v.BindPFlag(name, pf.Lookup(name))
	}

	// Env vars: CGEN_STRICT, CGEN_ALLOW_DIRTY, etc.
	a.v.SetEnvPrefix("CGEN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newRenderCmd(a))
	rootCmd.AddCommand(newImportGoCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newUndoCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))

	return rootCmd
}

// init reads the config file and builds the logger.
func (a *app) init(cmd *cobra.Command) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "reading config %s", path)
		}
	} else {
		a.v.SetConfigName(".cgen")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		// The default config file is optional.
		_ = a.v.ReadInConfig()
	}

	a.log = logging.New(a.v.GetBool("log-json"), a.v.GetInt("verbose"), zapcore.AddSync(a.stderr))
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("config loaded", zap.String("file", used))
	}
	return nil
}

func (a *app) verifyConfig() verify.Config {
	return verify.Config{
		Compiler: a.v.GetString("cc"),
		Flags:    a.v.GetStringSlice("cflags"),
		Timeout:  a.v.GetDuration("cc-timeout"),
	}
}

// printError writes err with any hints and details attached to it.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "cgen: %v\n", err)
	if details := errors.FlattenDetails(err); details != "" {
		fmt.Fprintln(w, strings.TrimRight(details, "\n"))
	}
	if hints := errors.FlattenHints(err); hints != "" {
		fmt.Fprintf(w, "hint: %s\n", hints)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print cgen version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "cgen %s\n", version)
		},
	}
}
