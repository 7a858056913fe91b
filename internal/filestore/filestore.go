// Package filestore keeps line-oriented record files inside a single directory.
//
// Files are addressed by name relative to the directory root, so the whole
// directory can be archived and moved. Appends and rewrites are serialised by
// an exclusive lock; reads take no lock and may observe a slightly stale file.
package filestore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

// MaxLineSize bounds one record line. Longer lines are refused on append and
// reported as TooLong on read.
const MaxLineSize = 1 << 20

// ErrLineTooLong marks a line longer than MaxLineSize.
var ErrLineTooLong = fmt.Errorf("line longer than %d bytes", MaxLineSize)

// Line is a non-blank line read from a record file. Num is 1-based. Text is
// empty when TooLong is set.
type Line struct {
	Num     int
	Text    string
	TooLong bool
}

type Dir struct {
	root string
	mu   sync.Mutex
}

// Open prepares root for use, creating it if needed.
func Open(root string) (*Dir, error) {
	if root == "" {
		root = "."
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, &core.StoreError{Op: "create store dir", Path: root, Err: err}
	}

	return &Dir{root: root}, nil
}

func (d *Dir) Path(name string) string { return filepath.Join(d.root, name) }

// ReadLines returns the non-blank lines of name. A missing file yields no lines and no error.
func (d *Dir) ReadLines(name string) ([]Line, error) {
	path := d.Path(name)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, &core.StoreError{Op: "open", Path: name, Err: err}
	}
	defer f.Close()

	var lines []Line

	rd := bufio.NewReaderSize(f, 64*1024)

	for num := 1; ; num++ {
		text, tooLong, err := readLine(rd)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, &core.StoreError{Op: "read", Path: name, Err: err}
		}

		eof := err != nil
		if eof && text == "" && !tooLong {
			break
		}

		switch {
		case tooLong:
			lines = append(lines, Line{Num: num, TooLong: true})
		case strings.TrimSpace(text) != "":
			lines = append(lines, Line{Num: num, Text: text})
		}

		if eof {
			break
		}
	}

	return lines, nil
}

// readLine returns the next line without its terminator. The content of a
// line longer than MaxLineSize is discarded and tooLong is set. err is io.EOF
// for the last line of the file.
func readLine(rd *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)

	for {
		chunk, err := rd.ReadSlice('\n')

		if !tooLong && len(buf)+len(chunk) > MaxLineSize+2 {
			tooLong, buf = true, nil
		}

		if !tooLong {
			buf = append(buf, chunk...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}

		line := strings.TrimRight(string(buf), "\r\n")
		if !tooLong && len(line) > MaxLineSize {
			tooLong, line = true, ""
		}

		return line, tooLong, err
	}
}

// AppendLine appends a single record line under the store lock.
func (d *Dir) AppendLine(name, line string) error {
	tx := d.Begin()
	defer tx.Rollback()

	tx.Append(name, line)

	return tx.Commit()
}

// Update rewrites name with the lines fn derives from its current content,
// holding the lock across the read and the rewrite.
func (d *Dir) Update(name string, fn func(lines []Line) ([]string, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	lines, err := d.ReadLines(name)
	if err != nil {
		return err
	}

	out, err := fn(lines)
	if err != nil {
		return err
	}

	return d.replaceLocked(name, out)
}

// Exclusive runs fn while holding the store lock.
func (d *Dir) Exclusive(fn func(root string) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return fn(d.root)
}

func (d *Dir) appendLocked(name string, lines []string) error {
	for _, l := range lines {
		if strings.ContainsAny(l, "\r\n") {
			return &core.StoreError{Op: "append", Path: name, Err: fmt.Errorf("record contains a line break")}
		}

		if len(l) > MaxLineSize {
			return &core.StoreError{Op: "append", Path: name, Err: ErrLineTooLong}
		}
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteByte('\n')
	}

	f, err := os.OpenFile(d.Path(name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return &core.StoreError{Op: "open for append", Path: name, Err: err}
	}

	// One write per batch keeps every record line whole.
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return &core.StoreError{Op: "append", Path: name, Err: err}
	}

	if err := f.Close(); err != nil {
		return &core.StoreError{Op: "close", Path: name, Err: err}
	}

	return nil
}

func (d *Dir) replaceLocked(name string, lines []string) error {
	tmp, err := os.CreateTemp(d.root, "tmp-*")
	if err != nil {
		return &core.StoreError{Op: "create temp", Path: name, Err: err}
	}

	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	for _, l := range lines {
		w.WriteString(l)
		w.WriteByte('\n')
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return &core.StoreError{Op: "write", Path: name, Err: err}
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &core.StoreError{Op: "close", Path: name, Err: err}
	}

	if err := os.Rename(tmpPath, d.Path(name)); err != nil {
		os.Remove(tmpPath)
		return &core.StoreError{Op: "rename", Path: name, Err: err}
	}

	return nil
}

// Tx holds the store lock between Begin and Commit/Rollback. Appends are
// buffered and written on Commit.
type Tx struct {
	d       *Dir
	pending map[string][]string
	order   []string
	done    bool
}

func (d *Dir) Begin() *Tx {
	d.mu.Lock()

	return &Tx{d: d, pending: make(map[string][]string)}
}

func (t *Tx) ReadLines(name string) ([]Line, error) {
	return t.d.ReadLines(name)
}

func (t *Tx) Append(name string, lines ...string) {
	if _, ok := t.pending[name]; !ok {
		t.order = append(t.order, name)
	}

	t.pending[name] = append(t.pending[name], lines...)
}

func (t *Tx) Commit() error {
	if t.done {
		return fmt.Errorf("transaction already finished")
	}

	defer t.finish()

	for _, name := range t.order {
		if len(t.pending[name]) == 0 {
			continue
		}

		if err := t.d.appendLocked(name, t.pending[name]); err != nil {
			return err
		}
	}

	return nil
}

// Rollback discards buffered appends. It is a no-op after Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return nil
	}

	t.finish()

	return nil
}

func (t *Tx) finish() {
	t.done = true
	t.pending = nil
	t.d.mu.Unlock()
}
