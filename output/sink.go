// Package output persists exported assignments as NAME=VALUE lines.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	errs "github.com/useparagon/aws-secretsmanager-get-secrets/errors"
)

// Sink receives assignments in processing order.
type Sink interface {
	// Truncate empties the destination if it already exists.
	Truncate() error
	// Append writes one NAME=VALUE line.
	Append(name, value string) error
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Truncate() error             { return nil }
func (discard) Append(string, string) error { return nil }

// FileSink appends lines to a file on a go-billy filesystem.
type FileSink struct {
	fs   billy.Filesystem
	name string
	perm os.FileMode
}

var _ Sink = (*FileSink)(nil)

// NewFileSink returns a sink writing name on fsys.
func NewFileSink(fsys billy.Filesystem, name string) *FileSink {
	return &FileSink{fs: fsys, name: name, perm: 0o600}
}

// NewOSFileSink returns a sink for a path on the host filesystem. Relative
// paths are resolved against the working directory.
func NewOSFileSink(path string) (*FileSink, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errs.Wrap(err, errs.CodeIO, fmt.Sprintf("resolve output file %q", path))
	}
	return NewFileSink(osfs.New(filepath.Dir(abs)), filepath.Base(abs)), nil
}

// Truncate implements Sink. A missing file is left missing.
func (s *FileSink) Truncate() error {
	if _, err := s.fs.Stat(s.name); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errs.Wrap(err, errs.CodeIO, fmt.Sprintf("stat output file %q", s.name))
	}

	f, err := s.fs.OpenFile(s.name, os.O_WRONLY|os.O_TRUNC, s.perm)
	if err != nil {
		return errs.Wrap(err, errs.CodeIO, fmt.Sprintf("truncate output file %q", s.name))
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(err, errs.CodeIO, fmt.Sprintf("close output file %q", s.name))
	}
	return nil
}

// Append implements Sink, creating the file if needed.
func (s *FileSink) Append(name, value string) (err error) {
	f, err := s.fs.OpenFile(s.name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, s.perm)
	if err != nil {
		return errs.Wrap(err, errs.CodeIO, fmt.Sprintf("open output file %q", s.name))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errs.Wrap(cerr, errs.CodeIO, fmt.Sprintf("close output file %q", s.name))
		}
	}()

	if _, err := f.Write([]byte(name + "=" + value + "\n")); err != nil {
		return errs.Wrap(err, errs.CodeIO, fmt.Sprintf("write output file %q", s.name))
	}
	return nil
}
