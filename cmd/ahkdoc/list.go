package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/ui"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List generated class pages",
		Flags: []cli.Flag{
			configFlag(),
			outputFlag(),
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show member counts and page sizes"},
		},
		Action: listAction,
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	format, err := ui.ParseFormat(cmd.String("format"), cmd.Bool("json"))
	if err != nil {
		return err
	}

	cfg, err := loadOutputConfig(cmd)
	if err != nil {
		return err
	}

	m, err := manifest.Load(cfg.OutputDir)
	if err != nil {
		return err
	}

	return ui.RenderClassList(cmd.Root().Writer, m.Pages, ui.ListOptions{
		Format:  format,
		Verbose: cmd.Bool("verbose"),
	})
}
