// Package backup archives the file store directory and restores it.
package backup

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/tally/internal/core"
	"github.com/MrJamesThe3rd/tally/internal/filestore"
)

const (
	prefix     = "backup-"
	ext        = ".zip"
	recordExt  = ".txt"
	nameLayout = "2006-01-02_15-04-05"

	// maxEntrySize bounds the uncompressed size of one restored file.
	maxEntrySize = 512 << 20
)

// ErrNothingToBackup is returned when the store directory holds no data files.
var ErrNothingToBackup = fmt.Errorf("no data files to back up: %w", core.ErrNotFound)

type Archive struct {
	Name      string
	CreatedAt time.Time
	Size      int64
}

type Service struct {
	store *filestore.Dir
	dir   string
	now   func() time.Time
}

func NewService(store *filestore.Dir, backupDir string) *Service {
	return &Service{store: store, dir: backupDir, now: time.Now}
}

// ArchiveName is the file name of a backup taken at t.
func ArchiveName(t time.Time) string {
	return prefix + t.Format(nameLayout) + ext
}

// Create zips every data file of the store directory into a new archive
// named after the current time.
func (s *Service) Create() (Archive, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Archive{}, &core.StoreError{Op: "create backup dir", Path: s.dir, Err: err}
	}

	created := s.now()
	name := ArchiveName(created)

	err := s.store.Exclusive(func(root string) error {
		files, err := dataFiles(root)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			return ErrNothingToBackup
		}

		return writeArchive(filepath.Join(s.dir, name), root, files)
	})
	if err != nil {
		return Archive{}, err
	}

	info, err := os.Stat(filepath.Join(s.dir, name))
	if err != nil {
		return Archive{}, &core.StoreError{Op: "stat backup", Path: name, Err: err}
	}

	slog.Info("backup created", "archive", name, "size", info.Size())

	return Archive{Name: name, CreatedAt: created, Size: info.Size()}, nil
}

// dataFiles lists the record files (*.txt) under root relative to it,
// skipping in-flight temp files.
func dataFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.Type().IsRegular() || strings.HasPrefix(d.Name(), "tmp-") || filepath.Ext(d.Name()) != recordExt {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		files = append(files, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, &core.StoreError{Op: "scan store dir", Path: root, Err: err}
	}

	return files, nil
}

func writeArchive(path, root string, files []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "tmp-*"+ext)
	if err != nil {
		return &core.StoreError{Op: "create backup", Path: path, Err: err}
	}

	tmpPath := tmp.Name()

	if err := zipFiles(tmp, root, files); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return &core.StoreError{Op: "write backup", Path: path, Err: err}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &core.StoreError{Op: "close backup", Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &core.StoreError{Op: "rename backup", Path: path, Err: err}
	}

	return nil
}

func zipFiles(w io.Writer, root string, files []string) error {
	zw := zip.NewWriter(w)

	for _, rel := range files {
		zf, err := zw.Create(rel)
		if err != nil {
			return err
		}

		f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}

		_, err = io.Copy(zf, f)
		f.Close()

		if err != nil {
			return err
		}
	}

	return zw.Close()
}

// List returns the archives in the backup directory, newest first. A
// missing directory yields no archives.
func (s *Service) List() ([]Archive, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, &core.StoreError{Op: "list backups", Path: s.dir, Err: err}
	}

	var out []Archive

	for _, e := range entries {
		created, ok := parseName(e.Name())
		if !ok || !e.Type().IsRegular() {
			continue
		}

		a := Archive{Name: e.Name(), CreatedAt: created}
		if info, err := e.Info(); err == nil {
			a.Size = info.Size()
		}

		out = append(out, a)
	}

	slices.SortFunc(out, func(a, b Archive) int {
		return strings.Compare(b.Name, a.Name)
	})

	return out, nil
}

func parseName(name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return time.Time{}, false
	}

	stamp, ok = strings.CutSuffix(stamp, ext)
	if !ok {
		return time.Time{}, false
	}

	t, err := time.ParseInLocation(nameLayout, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Restore overwrites the store files with the contents of the named
// archive and returns the restored file names. Store files absent from the
// archive are left untouched.
func (s *Service) Restore(name string) ([]string, error) {
	if name != filepath.Base(name) {
		return nil, core.Invalid("archive", "%q must be a bare file name", name)
	}

	if _, ok := parseName(name); !ok {
		return nil, core.Invalid("archive", "%q is not a backup archive name", name)
	}

	path := filepath.Join(s.dir, name)

	zr, err := zip.OpenReader(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("backup %s: %w", name, core.ErrNotFound)
	}

	if err != nil {
		return nil, &core.StoreError{Op: "open backup", Path: path, Err: err}
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !filepath.IsLocal(filepath.FromSlash(f.Name)) {
			return nil, core.Invalid("archive", "entry %q escapes the store directory", f.Name)
		}
	}

	var restored []string

	err = s.store.Exclusive(func(root string) error {
		for _, f := range zr.File {
			if f.FileInfo().IsDir() {
				continue
			}

			if err := extract(f, root); err != nil {
				return &core.StoreError{Op: "restore", Path: f.Name, Err: err}
			}

			restored = append(restored, f.Name)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("backup restored", "archive", name, "files", len(restored))

	return restored, nil
}

// extract writes one entry next to its target and renames it into place.
func extract(f *zip.File, root string) error {
	target := filepath.Join(root, filepath.FromSlash(f.Name))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), "tmp-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()

	n, err := io.Copy(tmp, io.LimitReader(src, maxEntrySize+1))
	if err == nil && n > maxEntrySize {
		err = fmt.Errorf("entry larger than %d bytes", maxEntrySize)
	}

	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Rename(tmpPath, target)
	}

	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	return nil
}
