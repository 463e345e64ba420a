package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/generate"
)

func newCleanCommand() *cli.Command {
	return &cli.Command{
		Name:  "clean",
		Usage: "Remove generated pages, manifest and lock file",
		Flags: []cli.Flag{
			configFlag(),
			outputFlag(),
			&cli.BoolFlag{Name: "dry-run", Usage: "Show what would be removed"},
		},
		Action: cleanAction,
	}
}

func cleanAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadOutputConfig(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	removed, err := generate.Clean(cfg, dryRun)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}

	for _, file := range removed {
		_, _ = fmt.Fprintf(w, "  %s %s\n", color.RedString("-"), file)
	}

	_, _ = fmt.Fprintf(w, "%s %d file(s) from %s\n", verb, len(removed), cfg.OutputDir)
	return nil
}
