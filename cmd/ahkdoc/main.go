package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/config"
	"github.com/g5becks/ahkdoc/internal/errcode"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(errcode.ExitCode(err))
	}
}

func run(args []string) error {
	return newRootCommand().Run(context.Background(), args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:           "ahkdoc",
		Usage:          "Generate Markdown class reference pages from a JSON class dump",
		Version:        versionString(),
		DefaultCommand: "generate",
		Commands: []*cli.Command{
			newGenerateCommand(),
			newListCommand(),
			newSearchCommand(),
			newOutlineCommand(),
			newCatCommand(),
			newInitCommand(),
			newCleanCommand(),
		},
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: nearest ahkdoc.toml)",
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output directory (overrides output_dir)",
	}
}

// overrides collects the config values set on the command line.
func overrides(cmd *cli.Command) config.Overrides {
	var o config.Overrides

	if cmd.IsSet("input") {
		value := cmd.String("input")
		o.InputFile = &value
	}

	if cmd.IsSet("output") {
		value := cmd.String("output")
		o.OutputDir = &value
	}

	if cmd.IsSet("base-uri") {
		value := cmd.String("base-uri")
		o.BaseURI = &value
	}

	if cmd.IsSet("header-ids") {
		value := cmd.Bool("header-ids")
		o.IncludeHeaderIDs = &value
	}

	if cmd.IsSet("emit-json") {
		value := cmd.Bool("emit-json")
		o.EmitIntermediateJSON = &value
	}

	if cmd.IsSet("parallel") {
		value := cmd.Int("parallel")
		o.Parallel = &value
	}

	if cmd.IsSet("exclude") {
		o.Exclude = cmd.StringSlice("exclude")
	}

	return o
}

// loadOutputConfig loads the config for commands that read generated pages.
func loadOutputConfig(cmd *cli.Command) (*config.Config, error) {
	return config.LoadOutput(cmd.String("config"), overrides(cmd))
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = fmt.Fprintf(w, "%s %v\n", red.Sprint("error:"), err)

	if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Hint() != "" {
		_, _ = fmt.Fprintf(w, "%s %s\n", color.New(color.Faint).Sprint("hint:"), oopsErr.Hint())
	}
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}
