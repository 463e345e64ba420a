package main

import (
	"context"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/config"
	"github.com/g5becks/ahkdoc/internal/generate"
	"github.com/g5becks/ahkdoc/internal/source"
	"github.com/g5becks/ahkdoc/internal/ui"
)

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Render one Markdown page per class from the input dump",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "JSON class dump path or URL (overrides input_file)",
			},
			outputFlag(),
			&cli.StringFlag{Name: "base-uri", Usage: "Prefix for generated class links"},
			&cli.BoolFlag{Name: "header-ids", Usage: "Append :id= anchors to member headers"},
			&cli.BoolFlag{Name: "emit-json", Usage: "Also write the built model as classes.json"},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"p"},
				Usage:   "Maximum pages rendered at once (0 = number of CPUs)",
			},
			&cli.StringSliceFlag{Name: "exclude", Usage: "Skip classes matching glob (repeatable)"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Regenerate even when the input is unchanged"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show planned changes without writing files"},
			&cli.BoolFlag{Name: "progress", Usage: "Show a progress bar instead of per-class lines"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Report unchanged pages and log debug details"},
		},
		Action: generateAction,
	}
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"), overrides(cmd))
	if err != nil {
		return err
	}

	loader := source.New()
	defer func() { _ = loader.Close() }()

	verbose := cmd.Bool("verbose")
	dryRun := cmd.Bool("dry-run")
	errWriter := cmd.Root().ErrWriter

	printer := ui.NewGeneratePrinterWithWriter(errWriter, dryRun, verbose)
	opts := generate.Options{
		Force:   cmd.Bool("force"),
		DryRun:  dryRun,
		OnEvent: printer.HandleEvent,
		Logger:  newLogger(errWriter, verbose),
		Loader:  loader,
	}

	stopProgress := func() {}
	if cmd.Bool("progress") {
		stopProgress = startProgress(errWriter, &opts)
	}

	result, err := generate.Run(ctx, cfg, opts)
	stopProgress()

	if result != nil {
		printer.PrintSummary(result)
	}

	return err
}

// startProgress routes generation events to a progress bar on w. The
// returned func stops the bar and waits until its last frame is drawn.
func startProgress(w io.Writer, opts *generate.Options) func() {
	writer := ui.NewProgressWriter()
	writer.SetOutputWriter(w)
	bar := ui.NewGenerateProgress(writer)
	opts.OnEvent = bar.HandleEvent

	rendered := make(chan struct{})
	go func() {
		defer close(rendered)
		writer.Render()
	}()

	return func() {
		bar.Done()
		writer.Stop()
		<-rendered
	}
}
