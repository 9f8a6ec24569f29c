package project

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forPelevin/mdlv/internal/domain/timeline"
)

const (
	Header          = "MDLV1"
	DefaultJumpSize = 500
)

var ErrInvalidFilterData = errors.New("invalid project file")

// Data is everything persisted for one open project.
type Data struct {
	MoviePath string
	// JumpSize is the editor's navigation step; it has no effect on scripts.
	JumpSize int
	Filters  *timeline.List
}

func New(moviePath string) *Data {
	return &Data{MoviePath: moviePath, JumpSize: DefaultJumpSize, Filters: timeline.New()}
}

// IsProjectFile peeks at the first line of r without consuming it.
func IsProjectFile(r *bufio.Reader) bool {
	b, _ := r.Peek(len(Header) + 2)
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	b = bytes.TrimSuffix(b, []byte("\r"))
	return string(b) == Header
}

func Load(r io.Reader) (*Data, error) {
	br := bufio.NewReader(r)

	header, err := readLine(br)
	if err != nil || header != Header {
		return nil, fmt.Errorf("%w: missing %s header", ErrInvalidFilterData, Header)
	}
	moviePath, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: missing movie path", ErrInvalidFilterData)
	}
	jump, err := readLine(br)
	if err != nil {
		return nil, fmt.Errorf("%w: missing jump size", ErrInvalidFilterData)
	}
	jumpSize, err := strconv.Atoi(jump)
	if err != nil {
		return nil, fmt.Errorf("%w: jump size %q is not an integer", ErrInvalidFilterData, jump)
	}

	list, err := timeline.Load(br)
	if err != nil {
		return nil, err
	}
	return &Data{MoviePath: moviePath, JumpSize: jumpSize, Filters: list}, nil
}

// readLine returns the next line without its terminator. A final line without
// a newline is still returned; only an exhausted reader yields io.EOF.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (d *Data) Save(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n%d\n", Header, d.MoviePath, d.JumpSize); err != nil {
		return err
	}
	if d.Filters == nil {
		return nil
	}
	return d.Filters.Save(w)
}

func ReadFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// WriteFile saves d next to path and renames it into place, so a failed write
// never leaves a truncated project behind.
func WriteFile(path string, d *Data) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := d.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
