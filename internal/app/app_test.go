package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reweave/reweave/internal/adapters/fs"
	"github.com/reweave/reweave/internal/adapters/telemetry"
	"github.com/reweave/reweave/internal/app"
	"github.com/reweave/reweave/internal/core/domain"
	"github.com/reweave/reweave/internal/core/ports"
	"github.com/reweave/reweave/internal/core/ports/mocks"
	"github.com/reweave/reweave/internal/metadata"
)

// harness bundles the mocked collaborators of one App under test.
type harness struct {
	settings    *mocks.MockSettingsLoader
	reader      *mocks.MockFileReader
	transformer *mocks.MockTransformer
	logger      *mocks.MockLogger
	app         *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	h := &harness{
		settings:    mocks.NewMockSettingsLoader(ctrl),
		reader:      mocks.NewMockFileReader(ctrl),
		transformer: mocks.NewMockTransformer(ctrl),
		logger:      mocks.NewMockLogger(ctrl),
	}
	h.app = app.New(
		h.settings,
		h.reader,
		func(refs []string) ports.ReferenceLocator { return fs.NewLocator(refs) },
		h.transformer,
		h.logger,
		telemetry.NewNoOpTracer(),
	)
	return h
}

// serializedUnit builds a valid compiled unit named name.
func serializedUnit(t *testing.T, name string) domain.CompiledUnit {
	t.Helper()

	m := metadata.New(name)
	m.AddType(&metadata.TypeDef{
		Name: "Player",
		Methods: []*metadata.MethodDef{{
			Name: "Update",
			Body: []metadata.Instruction{{Op: "ret"}},
		}},
	})
	binary, _, err := m.Write()
	require.NoError(t, err)

	return domain.CompiledUnit{Name: name, Binary: binary}
}

func TestApp_Rewrite_NotProcessed(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)

	unit := serializedUnit(t, "OtherLib")
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeNotProcessed, result.Outcome)
	assert.Nil(t, result.Binary)
	assert.Nil(t, result.Symbols)
	assert.Empty(t, result.Diagnostics)
}

func TestApp_Rewrite_Disabled(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	settings := domain.DefaultSettings()
	settings.Disabled = true
	h.settings.EXPECT().Load(".").Return(settings, nil)

	result := h.app.Rewrite(context.Background(), serializedUnit(t, "Assembly-CSharp"))
	assert.Equal(t, domain.OutcomeNotProcessed, result.Outcome)
}

func TestApp_Rewrite_Success(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	h.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).
		DoAndReturn(func(m *metadata.Module, diags *domain.Diagnostics) error {
			diags.Infof("instrumented 1 methods")
			return nil
		})
	h.logger.EXPECT().Info(gomock.Any())

	unit := serializedUnit(t, "Assembly-CSharp")
	result := h.app.Rewrite(context.Background(), unit)

	require.Equal(t, domain.OutcomeRewritten, result.Outcome)
	require.NotEmpty(t, result.Binary)

	// The output is a well-formed module again.
	out, err := metadata.Parse(result.Binary, metadata.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Assembly-CSharp", out.Name())

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.SevInfo, result.Diagnostics[0].Severity)
}

func TestApp_Rewrite_TransformerError(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	h.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
	h.logger.EXPECT().Error(gomock.Any())

	unit := serializedUnit(t, "Assembly-CSharp")
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	// Pass-through: the original bytes come back untouched.
	assert.Equal(t, unit.Binary, result.Binary)
	assert.Equal(t, unit.Symbols, result.Symbols)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.SevError, result.Diagnostics[0].Severity)
	assert.Equal(t, "Assembly-CSharp", result.Diagnostics[0].Unit)
	assert.Contains(t, result.Diagnostics[0].Message, "boom")
}

func TestApp_Rewrite_ErrorDiagnosticFails(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	h.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).
		DoAndReturn(func(m *metadata.Module, diags *domain.Diagnostics) error {
			diags.Errorf("unsupported construct")
			return nil
		})
	h.logger.EXPECT().Error(gomock.Any())

	unit := serializedUnit(t, "Assembly-CSharp")
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Equal(t, unit.Binary, result.Binary)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, domain.SevError, result.Diagnostics[0].Severity)
}

func TestApp_Rewrite_PanicContainment(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	h.transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).
		DoAndReturn(func(m *metadata.Module, diags *domain.Diagnostics) error {
			panic("transformer exploded")
		})
	h.logger.EXPECT().Error(gomock.Any())

	unit := serializedUnit(t, "Assembly-CSharp")
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Equal(t, unit.Binary, result.Binary)
	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "transformer exploded")
}

func TestApp_Rewrite_CorruptInput(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	h.logger.EXPECT().Error(gomock.Any())

	unit := domain.CompiledUnit{Name: "Assembly-CSharp", Binary: []byte("garbage")}
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Equal(t, unit.Binary, result.Binary)
	require.Len(t, result.Diagnostics, 1)
}

func TestApp_Rewrite_SettingsError(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.settings.EXPECT().Load(".").Return(domain.Settings{}, errors.New("bad yaml"))
	h.logger.EXPECT().Error(gomock.Any())

	unit := serializedUnit(t, "Assembly-CSharp")
	result := h.app.Rewrite(context.Background(), unit)

	assert.Equal(t, domain.OutcomeFailed, result.Outcome)
	assert.Equal(t, unit.Binary, result.Binary)
}

func TestApp_Run_NoUnits(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.app.Run(context.Background(), nil, app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrNoUnitsSpecified)
}

func TestApp_Run_WritesToOutDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	unit := serializedUnit(t, "Assembly-CSharp")
	unitPath := filepath.Join(dir, "Assembly-CSharp.dll")
	require.NoError(t, os.WriteFile(unitPath, unit.Binary, domain.FilePerm))

	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsLoader(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(nil)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(settings, fs.NewReader(), fs.Factory, transformer, logger, telemetry.NewNoOpTracer())

	err := a.Run(context.Background(), []string{unitPath}, app.RunOptions{OutDir: outDir, Jobs: 1})
	require.NoError(t, err)

	// The original is untouched; the rewritten copy lands in the out dir.
	original, err := os.ReadFile(unitPath)
	require.NoError(t, err)
	assert.Equal(t, unit.Binary, original)

	written, err := os.ReadFile(filepath.Join(outDir, "Assembly-CSharp.dll"))
	require.NoError(t, err)
	out, err := metadata.Parse(written, metadata.ParseOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Assembly-CSharp", out.Name())
}

func TestApp_Run_SkippedUnitLeavesFilesAlone(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	unit := serializedUnit(t, "OtherLib")
	unitPath := filepath.Join(dir, "OtherLib.dll")
	require.NoError(t, os.WriteFile(unitPath, unit.Binary, domain.FilePerm))

	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsLoader(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)

	a := app.New(settings, fs.NewReader(), fs.Factory, transformer, logger, telemetry.NewNoOpTracer())

	err := a.Run(context.Background(), []string{unitPath}, app.RunOptions{OutDir: outDir, Jobs: 1})
	require.NoError(t, err)

	_, err = os.Stat(outDir)
	assert.True(t, os.IsNotExist(err))
}

func TestApp_Run_ExpandsRefDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	refDir := filepath.Join(dir, "managed")
	require.NoError(t, os.MkdirAll(refDir, domain.DirPerm))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "Reweave.Runtime.dll"), []byte("x"), domain.FilePerm))
	require.NoError(t, os.WriteFile(filepath.Join(refDir, "notes.txt"), []byte("x"), domain.FilePerm))

	// Only processed because the reference directory contributes the
	// support library.
	unit := serializedUnit(t, "PlayerLib")
	unitPath := filepath.Join(dir, "PlayerLib.dll")
	require.NoError(t, os.WriteFile(unitPath, unit.Binary, domain.FilePerm))

	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsLoader(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(nil)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(settings, fs.NewReader(), fs.Factory, transformer, logger, telemetry.NewNoOpTracer())

	outDir := filepath.Join(dir, "out")
	err := a.Run(context.Background(), []string{unitPath}, app.RunOptions{RefDirs: []string{refDir}, OutDir: outDir, Jobs: 1})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "PlayerLib.dll"))
	assert.NoError(t, err)
}

func TestApp_Run_MissingRefDir(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	err := h.app.Run(context.Background(), []string{"whatever.dll"}, app.RunOptions{
		RefDirs: []string{filepath.Join(t.TempDir(), "absent")},
	})
	require.Error(t, err)
}

func TestApp_Run_ReadsRefsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// A unit that is only processed because its reference list names the
	// support library.
	unit := serializedUnit(t, "PlayerLib")
	unitPath := filepath.Join(dir, "PlayerLib.dll")
	require.NoError(t, os.WriteFile(unitPath, unit.Binary, domain.FilePerm))

	refsContent := "# build host references\n\n" + filepath.Join(dir, "Reweave.Runtime.dll") + "\n"
	require.NoError(t, os.WriteFile(unitPath+domain.RefsExt, []byte(refsContent), domain.FilePerm))

	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsLoader(ctrl)
	transformer := mocks.NewMockTransformer(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	settings.EXPECT().Load(".").Return(domain.DefaultSettings(), nil)
	transformer.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(nil)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(settings, fs.NewReader(), fs.Factory, transformer, logger, telemetry.NewNoOpTracer())

	outDir := filepath.Join(dir, "out")
	err := a.Run(context.Background(), []string{unitPath}, app.RunOptions{OutDir: outDir, Jobs: 1})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "PlayerLib.dll"))
	assert.NoError(t, err)
}
