package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/exodus/internal/adapters/telemetry"
	"go.trai.ch/exodus/internal/core/domain"
	"go.trai.ch/exodus/internal/core/ports"
	"go.trai.ch/exodus/internal/core/ports/mocks"
)

func TestWrite_FailureBeforeMaterializeCarriesOutputRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	pkgDir := t.TempDir()
	outRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "alpha"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "alpha", "package.js"), []byte("// stub\n"), 0o644))

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	desc := mocks.NewMockDescriptorLoader(ctrl)
	desc.EXPECT().Load(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ string, b ports.PackageBuilder) error {
			b.Describe("alpha", "1.0.0", "")
			return nil
		})

	hasher := mocks.NewMockHasher(ctrl)
	hasher.EXPECT().ComputeTreeHash(gomock.Any()).Return("", errors.New("tree unreadable"))

	reg := NewRegistry(&Deps{
		Settings: &domain.Settings{
			PackageDirs: []string{pkgDir},
			OutputDir:   outRoot,
			Scope:       "@converted",
		},
		Descriptor: desc,
		Bundle:     mocks.NewMockBundleLoader(ctrl),
		Hasher:     hasher,
		Telemetry:  telemetry.NewNoOp(),
		Logger:     log,
	})

	unit := reg.Ensure(context.Background(), "alpha")
	err := unit.Write(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrWriteFailure)

	// The failure context names the output root even though nothing was
	// materialized yet.
	assert.Equal(t, filepath.Join(outRoot, "alpha"), unit.outDir)
}
