package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/ahkdoc/internal/atomicfile"
	"github.com/g5becks/ahkdoc/internal/config"
	"github.com/g5becks/ahkdoc/internal/errcode"
)

const (
	defaultInitInput  = "classes.json"
	defaultInitOutput = "docs"
)

const configTemplate = `# ahkdoc configuration

# JSON class dump to read. A local path (relative to this file) or an
# http(s) URL.
input_file = %s

# Directory the Markdown pages are written to.
output_dir = %s

# Prefix for links between generated pages.
base_uri = %s

# Append :id= anchors to member headers.
include_header_ids = false

# Also write the built model as classes.json in output_dir.
emit_intermediate_json = false

# Maximum pages rendered at once. 0 uses the number of CPUs.
parallel = 0

# Classes to skip, as glob patterns.
# exclude = ["Internal*"]
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter ahkdoc.toml in the current directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Input file to configure",
				Value:   defaultInitInput,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory to configure",
				Value:   defaultInitOutput,
			},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing ahkdoc.toml"},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	workDir, err := os.Getwd()
	if err != nil {
		return oops.Wrapf(err, "resolving working directory")
	}

	path := filepath.Join(workDir, config.DefaultFile)
	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return oops.
			Code(errcode.InvalidArgs).
			With("path", path).
			Hint("Use --force to overwrite it").
			Errorf("%s already exists", config.DefaultFile)
	}

	content := configContent(cmd.String("input"), cmd.String("output"))
	if err := atomicfile.Write(path, []byte(content)); err != nil {
		return oops.
			Code(errcode.WriteFailed).
			With("path", path).
			Wrapf(err, "writing config file")
	}

	_, _ = fmt.Fprintf(cmd.Root().Writer, "created %s\n", path)
	return nil
}

func configContent(input, output string) string {
	return fmt.Sprintf(configTemplate,
		strconv.Quote(input),
		strconv.Quote(output),
		strconv.Quote(config.DefaultBaseURI),
	)
}
