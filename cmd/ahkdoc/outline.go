package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/ui"
)

func newOutlineCommand() *cli.Command {
	return &cli.Command{
		Name:      "outline",
		Usage:     "Show the heading structure of a class page",
		ArgsUsage: "<class>",
		Flags: []cli.Flag{
			configFlag(),
			outputFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
		},
		Action: outlineAction,
	}
}

func outlineAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code(errcode.InvalidArgs).
			Hint("Usage: ahkdoc outline <class>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	page, _, err := lookupPage(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	return ui.RenderOutline(cmd.Root().Writer, page, cmd.Bool("json"))
}

// lookupPage loads the manifest and finds the page of a class by name or
// file name.
func lookupPage(cmd *cli.Command, name string) (*manifest.Page, string, error) {
	cfg, err := loadOutputConfig(cmd)
	if err != nil {
		return nil, "", err
	}

	m, err := manifest.Load(cfg.OutputDir)
	if err != nil {
		return nil, "", err
	}

	page, ok := m.Lookup(name)
	if !ok {
		return nil, "", oops.
			Code(errcode.ClassNotFound).
			With("class", name).
			Hint("Run 'ahkdoc list' to see available classes").
			Errorf("class %q not found", name)
	}

	return page, cfg.OutputDir, nil
}
