// Package generate runs a full documentation build: load the input, build
// the model once, render every class page in parallel and write the pages
// together with the manifest and lock file.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/ahkdoc/internal/atomicfile"
	"github.com/g5becks/ahkdoc/internal/builder"
	"github.com/g5becks/ahkdoc/internal/config"
	"github.com/g5becks/ahkdoc/internal/errcode"
	"github.com/g5becks/ahkdoc/internal/jsdoc"
	"github.com/g5becks/ahkdoc/internal/link"
	"github.com/g5becks/ahkdoc/internal/lockfile"
	"github.com/g5becks/ahkdoc/internal/manifest"
	"github.com/g5becks/ahkdoc/internal/model"
	"github.com/g5becks/ahkdoc/internal/render"
	"github.com/g5becks/ahkdoc/internal/source"
)

// IntermediateFile holds the built entity set when emit_intermediate_json
// is enabled.
const IntermediateFile = "classes.json"

const fingerprintVersion = "1"

type Options struct {
	Force   bool
	DryRun  bool
	OnEvent func(Event)
	Logger  *slog.Logger
	// Loader reads the input. Nil uses source.New().
	Loader *source.Loader
}

type pageState struct {
	class   *model.DocClass
	file    string
	content []byte
	hash    string
	status  PageStatus
	err     error
}

func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code(errcode.ConfigInvalid).
			Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	loader := opts.Loader
	if loader == nil {
		loader = source.New()
		defer loader.Close()
	}

	result := &RunResult{OutputDir: cfg.OutputDir, DryRun: opts.DryRun}

	lock, err := lockfile.Load(cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	options := fingerprint(cfg)

	input, err := loadInput(ctx, loader, cfg, lock, options, opts.Force)
	if err != nil {
		return nil, err
	}

	if input == nil {
		logger.Info("input not modified", "input", cfg.InputFile)
		result.UpToDate = true
		opts.emit(Event{Kind: EventUpToDate})
		return result, nil
	}

	inputEntry := lockfile.InputEntry{
		Location: cfg.InputFile,
		SHA256:   lockfile.Hash(input.Data),
		ETag:     input.ETag,
		LastMod:  input.LastModified,
	}

	if !opts.Force && lock.UpToDate(inputEntry, options) && pagesPresent(cfg.OutputDir, lock) {
		logger.Info("output up to date", "input", cfg.InputFile, "pages", len(lock.Pages))
		result.UpToDate = true
		opts.emit(Event{Kind: EventUpToDate})
		return result, nil
	}

	links := link.NewResolver(cfg.BaseURI)

	set, err := builder.New(jsdoc.NewParser(), links, builder.WithLogger(logger)).BuildJSON(input.Data)
	if err != nil {
		return nil, err
	}

	logger.Debug("model built", "classes", set.Len())

	if !opts.DryRun {
		if mkErr := os.MkdirAll(cfg.OutputDir, 0o755); mkErr != nil {
			return nil, oops.
				Code(errcode.WriteFailed).
				With("path", cfg.OutputDir).
				Wrapf(mkErr, "creating output directory")
		}
	}

	if cfg.EmitIntermediateJSON && !opts.DryRun {
		if emitErr := writeIntermediate(cfg.OutputDir, set); emitErr != nil {
			return nil, emitErr
		}
	}

	classes := make([]*model.DocClass, 0, set.Len())
	for _, class := range set.Classes() {
		if cfg.Excluded(class.Name) {
			logger.Debug("class excluded", "class", class.Name)
			result.Excluded++
			continue
		}

		classes = append(classes, class)
	}

	result.Classes = len(classes)
	opts.emit(Event{Kind: EventBuilt, Total: len(classes)})

	renderOpts := render.Options{IncludeHeaderIDs: cfg.IncludeHeaderIDs, Links: links}
	states := renderAll(ctx, cfg, set, classes, renderOpts, lock, opts, logger)

	m := manifest.New()
	m.Input = cfg.InputFile
	m.BaseURI = links.BaseURI()

	keep := make(map[string]bool, len(states))
	for _, state := range states {
		keep[state.file] = true

		switch state.status {
		case StatusFailed:
			result.Failures = append(result.Failures, Failure{Class: state.class.Name, Err: state.err})
			continue
		case StatusWritten:
			result.Written++
		case StatusUnchanged:
			result.Unchanged++
		}

		lock.SetPage(state.file, state.hash)
		m.Pages = append(m.Pages, manifest.NewPage(state.class, state.content, links))
	}

	for _, file := range lock.Stale(keep) {
		if !opts.DryRun {
			if rmErr := os.Remove(filepath.Join(cfg.OutputDir, file)); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				return nil, oops.
					Code(errcode.WriteFailed).
					With("file", file).
					Wrapf(rmErr, "removing stale page")
			}
		}

		logger.Debug("stale page removed", "file", file)
		lock.RemovePage(file)
		result.Removed++
		opts.emit(Event{Kind: EventPageRemoved, File: file})
	}

	if !opts.DryRun {
		// A lock without input identity forces the next run to retry failed
		// classes.
		lock.Input = nil
		if len(result.Failures) == 0 {
			lock.Input = &inputEntry
		}
		lock.Options = options
		lock.GeneratedAt = time.Now().UTC()

		if saveErr := lock.Save(cfg.OutputDir); saveErr != nil {
			return nil, saveErr
		}

		if saveErr := m.Save(cfg.OutputDir); saveErr != nil {
			return nil, saveErr
		}
	}

	logger.Info("generation finished",
		"written", result.Written,
		"unchanged", result.Unchanged,
		"removed", result.Removed,
		"failed", len(result.Failures),
	)

	if len(result.Failures) > 0 {
		return result, oops.
			Code(errcode.RenderFailed).
			With("failed_classes", len(result.Failures)).
			Hint("Fix the reported classes and run 'ahkdoc generate' again").
			Errorf("%d class(es) failed to render", len(result.Failures))
	}

	return result, nil
}

// loadInput returns nil when a conditional download reports the input as
// unchanged and the lock still describes a complete run with the same
// options.
func loadInput(
	ctx context.Context,
	loader *source.Loader,
	cfg *config.Config,
	lock *lockfile.LockFile,
	options string,
	force bool,
) (*source.Input, error) {
	var prev *source.Validators
	if !force && lock.Input != nil && lock.Input.Location == cfg.InputFile && lock.Options == options &&
		pagesPresent(cfg.OutputDir, lock) {
		prev = &source.Validators{ETag: lock.Input.ETag, LastModified: lock.Input.LastMod}
	}

	input, err := loader.Load(ctx, cfg.InputFile, prev)
	if err != nil {
		return nil, err
	}

	if input.NotModified {
		return nil, nil
	}

	return input, nil
}

func renderAll(
	ctx context.Context,
	cfg *config.Config,
	set *model.Set,
	classes []*model.DocClass,
	renderOpts render.Options,
	lock *lockfile.LockFile,
	opts Options,
	logger *slog.Logger,
) []pageState {
	states := make([]pageState, len(classes))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(cfg.Workers())

	owners := make(map[string]string, len(classes))

	for i, class := range classes {
		states[i] = pageState{class: class, file: render.FileName(class.Name)}

		if owner, taken := owners[states[i].file]; taken {
			state := &states[i]
			state.status = StatusFailed
			state.err = oops.
				Code(errcode.RenderFailed).
				With("class", class.Name).
				With("file", state.file).
				With("conflicts_with", owner).
				Hint("Class names must differ by more than letter case").
				Errorf("class %q maps to %s, already used by class %q", class.Name, state.file, owner)
			logger.Warn("class failed", "class", class.Name, "error", state.err)
			opts.emit(Event{Kind: EventClassDone, Class: class.Name, File: state.file, Status: state.status, Err: state.err})
			continue
		}

		owners[states[i].file] = class.Name

		group.Go(func() error {
			state := &states[i]

			if ctxErr := groupCtx.Err(); ctxErr != nil {
				state.status = StatusFailed
				state.err = ctxErr
				opts.emit(Event{Kind: EventClassDone, Class: class.Name, File: state.file, Status: state.status, Err: ctxErr})
				return nil
			}

			opts.emit(Event{Kind: EventClassStart, Class: class.Name, File: state.file})

			renderPage(cfg.OutputDir, set, renderOpts, lock, opts, state)
			if state.err != nil {
				logger.Warn("class failed", "class", class.Name, "error", state.err)
			}

			opts.emit(Event{Kind: EventClassDone, Class: class.Name, File: state.file, Status: state.status, Err: state.err})
			return nil
		})
	}

	// Tasks never return errors; failures are kept per class.
	_ = group.Wait()

	return states
}

func renderPage(
	outputDir string,
	set *model.Set,
	renderOpts render.Options,
	lock *lockfile.LockFile,
	opts Options,
	state *pageState,
) {
	page, renderErr := renderSafely(state.class.Name, func() string {
		return render.Class(state.class, set, renderOpts)
	})
	if renderErr != nil {
		state.status = StatusFailed
		state.err = renderErr
		return
	}

	state.content = []byte(page + "\n")
	state.hash = lockfile.Hash(state.content)
	path := filepath.Join(outputDir, state.file)

	if !opts.Force && lock.PageHash(state.file) == state.hash && fileExists(path) {
		state.status = StatusUnchanged
		return
	}

	if !opts.DryRun {
		if writeErr := atomicfile.Write(path, state.content); writeErr != nil {
			state.status = StatusFailed
			state.err = oops.
				Code(errcode.RenderFailed).
				With("class", state.class.Name).
				With("path", path).
				Wrapf(writeErr, "writing page")
			return
		}
	}

	state.status = StatusWritten
}

// renderSafely runs fn and turns a panic into a RENDER_FAILED error for
// className.
func renderSafely(className string, fn func() string) (string, error) {
	var page string
	err := oops.
		Code(errcode.RenderFailed).
		With("class", className).
		Recoverf(func() {
			page = fn()
		}, "rendering class %q", className)

	return page, err
}

func writeIntermediate(outputDir string, set *model.Set) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return oops.
			Code(errcode.WriteFailed).
			Wrapf(err, "encoding %s", IntermediateFile)
	}

	path := filepath.Join(outputDir, IntermediateFile)
	if writeErr := atomicfile.Write(path, append(data, '\n')); writeErr != nil {
		return oops.
			Code(errcode.WriteFailed).
			With("path", path).
			Wrapf(writeErr, "writing %s", IntermediateFile)
	}

	return nil
}

// fingerprint identifies the options that change page content.
func fingerprint(cfg *config.Config) string {
	raw := fmt.Sprintf("v%s|%s|%t|%t|%s",
		fingerprintVersion,
		link.NewResolver(cfg.BaseURI).BaseURI(),
		cfg.IncludeHeaderIDs,
		cfg.EmitIntermediateJSON,
		strings.Join(cfg.Exclude, "\x00"),
	)

	return lockfile.Hash([]byte(raw))
}

func pagesPresent(outputDir string, lock *lockfile.LockFile) bool {
	if !fileExists(manifest.ManifestPath(outputDir)) {
		return false
	}

	for _, file := range lock.Files() {
		if !fileExists(filepath.Join(outputDir, file)) {
			return false
		}
	}

	return true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
