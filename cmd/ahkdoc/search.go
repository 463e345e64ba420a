package main

import (
	"context"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/search"
	"github.com/g5becks/ahkdoc/internal/ui"
)

const defaultSearchLimit = 50

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search class and member names or page content",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			outputFlag(),
			&cli.StringFlag{Name: "class", Usage: "Search only within one class"},
			&cli.BoolFlag{Name: "content", Usage: "Search page contents instead of symbols"},
			&cli.BoolFlag{Name: "regex", Usage: "Treat query as regex (requires --content)"},
			&cli.BoolFlag{Name: "json", Usage: "Output as JSON"},
			&cli.StringFlag{Name: "format", Usage: "Output format: table, json, csv"},
			&cli.IntFlag{Name: "limit", Usage: "Max results (0 = unlimited)", Value: defaultSearchLimit},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return oops.
			Code(errcode.InvalidArgs).
			Hint("Usage: ahkdoc search <query>").
			Errorf("expected 1 argument, got %d", cmd.Args().Len())
	}

	query := strings.TrimSpace(cmd.Args().First())
	if query == "" {
		return oops.
			Code(errcode.InvalidArgs).
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	if cmd.Bool("regex") && !cmd.Bool("content") {
		return oops.
			Code(errcode.InvalidArgs).
			Hint("--regex requires --content flag").
			Errorf("--regex can only be used with --content")
	}

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

	if cmd.Bool("content") {
		results, err := search.Content(m, search.ContentOptions{
			OutputDir: cfg.OutputDir,
			Query:     query,
			Class:     cmd.String("class"),
			UseRegex:  cmd.Bool("regex"),
			Limit:     cmd.Int("limit"),
		})
		if err != nil {
			return err
		}

		return ui.RenderContentResults(cmd.Root().Writer, results, format)
	}

	results, err := search.Symbols(m, search.SymbolOptions{
		Query: query,
		Class: cmd.String("class"),
		Limit: cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	return ui.RenderSymbolResults(cmd.Root().Writer, results, format)
}
