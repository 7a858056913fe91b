package backup

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
)

func newService(t *testing.T) (*Service, *filestore.Dir) {
	t.Helper()

	root := t.TempDir()

	store, err := filestore.Open(filepath.Join(root, "database"))
	require.NoError(t, err)

	return NewService(store, filepath.Join(root, "backups")), store
}

func clock(ts ...time.Time) func() time.Time {
	i := 0

	return func() time.Time {
		t := ts[i]
		i++

		return t
	}
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "backup-2024-03-05_07-08-09.zip", ArchiveName(time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)))
}

func TestService_CreateListRestore(t *testing.T) {
	svc, store := newService(t)

	first := time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local)
	second := first.Add(time.Hour)
	svc.now = clock(first, second)

	require.NoError(t, store.AppendLine("transactions.txt", "2024-03-01,expense,Food,100,lunch"))
	require.NoError(t, store.AppendLine("budgets.txt", "Food,1000"))

	a1, err := svc.Create()
	require.NoError(t, err)
	assert.Equal(t, "backup-2024-03-05_07-08-09.zip", a1.Name)
	assert.Positive(t, a1.Size)

	require.NoError(t, store.AppendLine("transactions.txt", "2024-03-02,expense,Food,200,dinner"))

	a2, err := svc.Create()
	require.NoError(t, err)

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a2.Name, list[0].Name, "newest first")
	assert.Equal(t, a1.Name, list[1].Name)
	assert.True(t, list[1].CreatedAt.Equal(first))

	restored, err := svc.Restore(a1.Name)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"transactions.txt", "budgets.txt"}, restored)

	got, err := os.ReadFile(store.Path("transactions.txt"))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01,expense,Food,100,lunch\n", string(got))
}

func TestService_CreateEmptyStore(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create()
	assert.ErrorIs(t, err, ErrNothingToBackup)

	list, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_CreateSkipsNonRecordFiles(t *testing.T) {
	svc, store := newService(t)

	require.NoError(t, store.AppendLine("transactions.txt", "2024-03-01,expense,Food,100,lunch"))
	require.NoError(t, os.WriteFile(store.Path("tally.log"), []byte("level=INFO msg=started\n"), 0o644))

	a, err := svc.Create()
	require.NoError(t, err)

	zr, err := zip.OpenReader(filepath.Join(svc.dir, a.Name))
	require.NoError(t, err)
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}

	assert.Equal(t, []string{"transactions.txt"}, names)

	require.NoError(t, os.WriteFile(store.Path("tally.log"), []byte("newer\n"), 0o644))

	_, err = svc.Restore(a.Name)
	require.NoError(t, err)

	got, err := os.ReadFile(store.Path("tally.log"))
	require.NoError(t, err)
	assert.Equal(t, "newer\n", string(got), "restore leaves the log alone")
}

func TestService_ListIgnoresForeignFiles(t *testing.T) {
	svc, _ := newService(t)

	require.NoError(t, os.MkdirAll(svc.dir, 0o755))

	for _, name := range []string{"notes.txt", "backup-yesterday.zip", "backup-2024-01-01_00-00-00.zip"} {
		require.NoError(t, os.WriteFile(filepath.Join(svc.dir, name), []byte("x"), 0o600))
	}

	list, err := svc.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "backup-2024-01-01_00-00-00.zip", list[0].Name)
}

func TestService_Restore(t *testing.T) {
	type testCase struct {
		name    string
		archive string
		setup   func(t *testing.T, svc *Service)
		wantErr error
	}

	tests := []testCase{
		{
			name:    "Missing",
			archive: "backup-2020-01-01_00-00-00.zip",
			wantErr: core.ErrNotFound,
		},
		{
			name:    "PathInName",
			archive: "../backup-2020-01-01_00-00-00.zip",
			wantErr: core.ErrValidation,
		},
		{
			name:    "NotAnArchiveName",
			archive: "transactions.txt",
			wantErr: core.ErrValidation,
		},
		{
			name:    "EntryEscapesStore",
			archive: "backup-2020-01-01_00-00-00.zip",
			setup: func(t *testing.T, svc *Service) {
				require.NoError(t, os.MkdirAll(svc.dir, 0o755))

				f, err := os.Create(filepath.Join(svc.dir, "backup-2020-01-01_00-00-00.zip"))
				require.NoError(t, err)

				zw := zip.NewWriter(f)
				w, err := zw.Create("../evil.txt")
				require.NoError(t, err)
				_, err = w.Write([]byte("x"))
				require.NoError(t, err)
				require.NoError(t, zw.Close())
				require.NoError(t, f.Close())
			},
			wantErr: core.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			if tt.setup != nil {
				tt.setup(t, svc)
			}

			_, err := svc.Restore(tt.archive)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
