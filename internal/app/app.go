// Package app implements the application layer for reweave: the rewrite
// orchestrator and the CLI-facing batch runner.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
	"github.com/reweave/reweave/internal/engine/filter"
	"github.com/reweave/reweave/internal/engine/resolve"
	"github.com/reweave/reweave/internal/metadata"
)

// App represents the main application logic.
type App struct {
	settings    ports.SettingsLoader
	reader      ports.FileReader
	newLocator  ports.LocatorFactory
	transformer ports.Transformer
	logger      ports.Logger
	tracer      ports.Tracer
}

// New creates a new App instance.
func New(
	settings ports.SettingsLoader,
	reader ports.FileReader,
	newLocator ports.LocatorFactory,
	transformer ports.Transformer,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		settings:    settings,
		reader:      reader,
		newLocator:  newLocator,
		transformer: transformer,
		logger:      log,
		tracer:      tracer,
	}
}

// Rewrite runs the full pipeline for one compiled unit. It never returns
// an error: a failure of any kind degrades to passing the original bytes
// through unchanged with a single error diagnostic, so one broken
// module's rewrite cannot abort the surrounding build. Resolver state is
// private to the call; nothing is carried between invocations.
func (a *App) Rewrite(ctx context.Context, unit domain.CompiledUnit) domain.RewriteResult {
	ctx, span := a.tracer.Start(ctx, "rewrite")
	defer span.End()
	span.SetAttribute("unit", unit.Name)

	settings, err := a.settings.Load(".")
	if err != nil {
		span.RecordError(err)
		result := a.failed(unit, err)
		span.SetAttribute("outcome", result.Outcome.String())
		return result
	}

	if !filter.New(settings).ShouldProcess(unit.Name, unit.ReferencePaths) {
		span.SetAttribute("outcome", domain.OutcomeNotProcessed.String())
		return domain.RewriteResult{Outcome: domain.OutcomeNotProcessed}
	}

	result := a.rewrite(ctx, unit, settings)
	span.SetAttribute("outcome", result.Outcome.String())
	return result
}

// rewrite drives the unit through load, transform and serialize. The
// deferred recover is the containment boundary: a panicking transformer
// must not take the build host down.
func (a *App) rewrite(ctx context.Context, unit domain.CompiledUnit, settings domain.Settings) (result domain.RewriteResult) {
	defer func() {
		if r := recover(); r != nil {
			result = a.failed(unit, zerr.With(domain.ErrTransformFailed, "panic", fmt.Sprint(r)))
		}
	}()

	mod, err := a.load(ctx, unit, settings)
	if err != nil {
		return a.failed(unit, err)
	}
	defer mod.Close() //nolint:errcheck // Close on a live module cannot fail

	diags := domain.NewDiagnostics(unit.Name)
	if err := a.transform(ctx, mod, diags); err != nil {
		return a.failed(unit, err)
	}
	if diag, ok := diags.FirstError(); ok {
		return a.failed(unit, zerr.With(domain.ErrTransformFailed, "diagnostic", diag.Message))
	}

	binary, symbols, err := a.serialize(ctx, mod)
	if err != nil {
		return a.failed(unit, err)
	}

	a.logger.Info(fmt.Sprintf("rewrote %s", unit.Name))
	return domain.RewriteResult{
		Outcome:     domain.OutcomeRewritten,
		Binary:      binary,
		Symbols:     symbols,
		Diagnostics: diags.Items(),
	}
}

// load parses the unit into a linked module with its self-reference
// registered and the core-library importer installed.
func (a *App) load(ctx context.Context, unit domain.CompiledUnit, settings domain.Settings) (*metadata.Module, error) {
	_, span := a.tracer.Start(ctx, "load")
	defer span.End()

	resolver := resolve.NewResolver(a.newLocator(unit.ReferencePaths), a.reader)
	mod, err := metadata.Parse(unit.Binary, metadata.ParseOptions{
		Symbols:  unit.Symbols,
		Resolver: resolver,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resolver.RegisterSelf(unit.Name, mod)
	mod.SetImporter(resolve.NewCoreLibImporter(settings.CoreLibraryAliases))

	span.SetAttribute("references", len(mod.References()))
	return mod, nil
}

// transform applies the external transformation step.
func (a *App) transform(ctx context.Context, mod *metadata.Module, diags *domain.Diagnostics) error {
	_, span := a.tracer.Start(ctx, "transform")
	defer span.End()

	if err := a.transformer.Transform(mod, diags); err != nil {
		err = zerr.Wrap(err, domain.ErrTransformFailed.Error())
		span.RecordError(err)
		return err
	}
	return nil
}

// serialize writes the rewritten module and its symbols back to bytes.
func (a *App) serialize(ctx context.Context, mod *metadata.Module) ([]byte, []byte, error) {
	_, span := a.tracer.Start(ctx, "serialize")
	defer span.End()

	binary, symbols, err := mod.Write()
	if err != nil {
		err = zerr.Wrap(err, domain.ErrSerializeFailed.Error())
		span.RecordError(err)
		return nil, nil, err
	}
	return binary, symbols, nil
}

// failed discards all partial work and produces the pass-through result:
// the original, untouched input bytes plus exactly one error diagnostic.
func (a *App) failed(unit domain.CompiledUnit, err error) domain.RewriteResult {
	a.logger.Error(zerr.With(err, "unit", unit.Name))
	return domain.RewriteResult{
		Outcome: domain.OutcomeFailed,
		Binary:  unit.Binary,
		Symbols: unit.Symbols,
		Diagnostics: []domain.Diagnostic{{
			Severity: domain.SevError,
			Unit:     unit.Name,
			Message:  fmt.Sprintf("rewrite of %s failed: %v", unit.Name, err),
		}},
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// Refs are extra reference paths applied to every unit, in addition
	// to each unit's companion .refs file.
	Refs []string

	// RefDirs are directories whose libraries are all added as reference
	// paths for every unit.
	RefDirs []string

	// OutDir writes rewritten modules there instead of in place.
	OutDir string

	// Jobs bounds how many units are processed concurrently. Zero means
	// one worker per CPU.
	Jobs int
}

// Run processes the given module files. Units run concurrently, each with
// its own private pipeline state. A unit whose rewrite fails is passed
// through with a diagnostic and does not fail the run; only I/O errors on
// the units themselves do.
func (a *App) Run(ctx context.Context, unitPaths []string, opts RunOptions) error {
	if len(unitPaths) == 0 {
		return domain.ErrNoUnitsSpecified
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	dirRefs, err := expandRefDirs(opts.RefDirs)
	if err != nil {
		return err
	}
	opts.Refs = append(append([]string(nil), opts.Refs...), dirRefs...)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, path := range unitPaths {
		g.Go(func() error {
			unit, err := a.readUnit(path, opts)
			if err != nil {
				return err
			}
			result := a.Rewrite(ctx, unit)
			return a.writeResult(path, result, opts)
		})
	}

	return g.Wait()
}

// readUnit assembles a CompiledUnit from a module file, its optional
// companion symbol file, and its reference list.
func (a *App) readUnit(path string, opts RunOptions) (domain.CompiledUnit, error) {
	binary, err := a.reader.ReadFile(path)
	if err != nil {
		return domain.CompiledUnit{}, zerr.Wrap(err, domain.ErrUnitReadFailed.Error())
	}

	unit := domain.CompiledUnit{
		Name:           strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Binary:         binary,
		ReferencePaths: opts.Refs,
	}

	symPath := strings.TrimSuffix(path, filepath.Ext(path)) + domain.SymbolExt
	if _, err := os.Stat(symPath); err == nil {
		symbols, err := a.reader.ReadFile(symPath)
		if err != nil {
			return domain.CompiledUnit{}, zerr.Wrap(err, domain.ErrUnitReadFailed.Error())
		}
		unit.Symbols = symbols
	}

	refs, err := readRefsFile(path + domain.RefsExt)
	if err != nil {
		return domain.CompiledUnit{}, err
	}
	unit.ReferencePaths = append(unit.ReferencePaths, refs...)

	return unit, nil
}

// expandRefDirs lists every library in the given directories.
func expandRefDirs(dirs []string) ([]string, error) {
	var refs []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrUnitReadFailed.Error()), "dir", dir)
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != domain.BinaryExt {
				continue
			}
			refs = append(refs, filepath.Join(dir, entry.Name()))
		}
	}
	return refs, nil
}

// readRefsFile reads a build-host reference list: one absolute path per
// line, blank lines and #-comments ignored. A missing file is an empty
// list.
func readRefsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Companion file next to a host-supplied module path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUnitReadFailed.Error()), "path", path)
	}

	var refs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	return refs, nil
}

// writeResult persists a rewritten unit. Skipped and failed units leave
// the original files alone.
func (a *App) writeResult(path string, result domain.RewriteResult, opts RunOptions) error {
	for _, diag := range result.Diagnostics {
		switch diag.Severity {
		case domain.SevWarning:
			a.logger.Warn(diag.Message)
		case domain.SevInfo:
			a.logger.Info(diag.Message)
		case domain.SevError:
			// Already logged on the failure path.
		}
	}

	if result.Outcome != domain.OutcomeRewritten {
		return nil
	}

	outPath := path
	if opts.OutDir != "" {
		outPath = filepath.Join(opts.OutDir, filepath.Base(path))
		if err := os.MkdirAll(opts.OutDir, domain.DirPerm); err != nil {
			return zerr.Wrap(err, domain.ErrOutputWriteFailed.Error())
		}
	}

	if err := os.WriteFile(outPath, result.Binary, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", outPath)
	}
	if result.Symbols != nil {
		symPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + domain.SymbolExt
		if err := os.WriteFile(symPath, result.Symbols, domain.FilePerm); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", symPath)
		}
	}
	return nil
}
