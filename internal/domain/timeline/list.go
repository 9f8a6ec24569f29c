// Package timeline holds the sparse, frame-indexed list of filters that makes up
// a project. Each entry applies from its start frame up to (excluding) the start
// frame of the next entry; the last entry runs to the end of the stream.
package timeline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/forPelevin/mdlv/internal/domain/filters"
)

var ErrInvalidFilter = errors.New("invalid filter line")

// Entry pairs a 1-based start frame with the filter active from there on.
type Entry struct {
	Start  int
	Filter filters.Filter
}

// List keeps entries sorted by start frame with unique keys. The zero value is
// an empty list.
type List struct {
	entries []Entry
}

func New() *List { return &List{} }

func (l *List) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in ascending start order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// At returns the i-th entry in ascending order.
func (l *List) At(i int) Entry { return l.entries[i] }

func (l *List) search(start int) (int, bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].Start >= start })
	return i, i < len(l.entries) && l.entries[i].Start == start
}

// Insert places f at start, replacing any filter already there.
func (l *List) Insert(start int, f filters.Filter) {
	i, found := l.search(start)
	if found {
		l.entries[i].Filter = f
		return
	}
	l.entries = append(l.entries, Entry{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = Entry{Start: start, Filter: f}
}

// Remove deletes the entry at start, if any.
func (l *List) Remove(start int) {
	i, found := l.search(start)
	if !found {
		return
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

// ChangeStartFrame moves the filter at oldStart to newStart. An entry already
// at newStart is overwritten. Nothing happens when oldStart is empty.
func (l *List) ChangeStartFrame(oldStart, newStart int) {
	f, ok := l.Get(oldStart)
	if !ok || oldStart == newStart {
		return
	}
	l.Remove(newStart)
	l.Insert(newStart, f)
	l.Remove(oldStart)
}

func (l *List) Get(start int) (filters.Filter, bool) {
	i, found := l.search(start)
	if !found {
		return filters.Filter{}, false
	}
	return l.entries[i].Filter, true
}

// Position returns the 0-based index of the entry at start, or -1.
func (l *List) Position(start int) int {
	i, found := l.search(start)
	if !found {
		return -1
	}
	return i
}

// FilterForFrame returns the entry whose range contains frame.
func (l *List) FilterForFrame(frame int) (Entry, bool) {
	i := sort.Search(len(l.entries), func(i int) bool { return l.entries[i].Start > frame })
	if i == 0 {
		return Entry{}, false
	}
	return l.entries[i-1], true
}

// HasReview reports whether any region still waits for manual review.
func (l *List) HasReview() bool {
	for _, e := range l.entries {
		if e.Filter.Type() == filters.TypeReview {
			return true
		}
	}
	return false
}

func (l *List) AffectsAudio() bool {
	for _, e := range l.entries {
		if e.Filter.AffectsAudio() {
			return true
		}
	}
	return false
}

// Load reads "<start>;<type>;<params>" lines. Both \n and \r\n line endings are
// accepted and blank lines are skipped.
func Load(r io.Reader) (*List, error) {
	l := New()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			continue
		}
		start, f, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		l.Insert(start, f)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

func parseLine(line string) (int, filters.Filter, error) {
	frame, rest, ok := strings.Cut(line, ";")
	if !ok {
		return 0, filters.Filter{}, fmt.Errorf("%w: missing ';' in %q", ErrInvalidFilter, line)
	}
	start, err := strconv.Atoi(frame)
	if err != nil {
		return 0, filters.Filter{}, fmt.Errorf("%w: frame %q is not an integer", ErrInvalidFilter, frame)
	}
	if start < 1 {
		return 0, filters.Filter{}, fmt.Errorf("%w: frame %d must be positive", ErrInvalidFilter, start)
	}
	f, err := filters.Load(rest)
	if err != nil {
		return 0, filters.Filter{}, err
	}
	return start, f, nil
}

// Save writes one line per entry in ascending start order.
func (l *List) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range l.entries {
		if _, err := fmt.Fprintf(bw, "%d;%s\n", e.Start, e.Filter.SaveString()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
