package deck

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxIncludeDepth bounds INCLUDE nesting so an include cycle fails fast
// instead of exhausting file descriptors.
const maxIncludeDepth = 64

// includeDirective extracts the quoted-or-bare path of an INCLUDE line.
var includeDirective = regexp.MustCompile(`^INCLUDE\s+['"]?([^'"\s]+)`)

// includeTarget returns the referenced path, or "" if line is not an INCLUDE
// directive. The prefix check keeps the regexp off the hot path.
func includeTarget(line string) string {
	if !strings.HasPrefix(line, "INCLUDE") {
		return ""
	}
	m := includeDirective.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}

// frame is one open file on the include stack.
type frame struct {
	file *os.File
	sc   *bufio.Scanner
	dir  string
	path string
	line int
}

// Deck is an open root input file. Its sections (executive control, case
// control, bulk data) are consumed as sequential cuts of one forward-only
// cursor: each Section call reads from where the previous one stopped.
// INCLUDE directives are resolved transparently, splicing the referenced
// file's lines in place; paths are relative to the including file's
// directory. Included file handles are closed as soon as they are exhausted.
type Deck struct {
	frames []*frame
	failed bool
}

// Open opens a deck rooted at path.
func Open(path string) (*Deck, error) {
	d := &Deck{}
	if err := d.push(path); err != nil {
		return nil, err
	}
	return d, nil
}

// Close releases every file handle still open, including mid-include frames
// left behind by an aborted traversal.
func (d *Deck) Close() error {
	var first error
	for _, f := range d.frames {
		if err := f.file.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.frames = nil
	return first
}

func (d *Deck) push(path string) error {
	if len(d.frames) >= maxIncludeDepth {
		return fmt.Errorf("%w (%d levels) at %q", ErrIncludeDepth, maxIncludeDepth, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIncludeNotFound, path, err)
	}
	d.frames = append(d.frames, &frame{
		file: file,
		sc:   bufio.NewScanner(file),
		dir:  filepath.Dir(path),
		path: path,
	})
	return nil
}

func (d *Deck) pop() error {
	f := d.frames[len(d.frames)-1]
	d.frames = d.frames[:len(d.frames)-1]
	return f.file.Close()
}

func (d *Deck) top() *frame {
	if len(d.frames) == 0 {
		return nil
	}
	return d.frames[len(d.frames)-1]
}

// Section returns a scanner over the deck's lines up to (and excluding) the
// first line starting with stop. A stop keyword inside an included file ends
// that file only; in the root file it ends the section. The scanner is lazy
// and forward-only, in the manner of bufio.Scanner.
func (d *Deck) Section(stop string) *Section {
	return &Section{deck: d, stop: stop}
}

// Section streams the lines of one deck section. It implements LineSource.
type Section struct {
	deck *Deck
	stop string
	done bool

	line string
	file string
	num  int
	err  error
}

// Scan advances to the next line, returning false at the section end or on
// error. A fatal error (missing include) closes every open file before
// returning.
func (s *Section) Scan() bool {
	if s.done || s.err != nil || s.deck.failed {
		return false
	}
	for {
		f := s.deck.top()
		if f == nil {
			s.done = true
			return false
		}
		if !f.sc.Scan() {
			if err := f.sc.Err(); err != nil {
				s.fail(fmt.Errorf("reading %q: %w", f.path, err))
				return false
			}
			if err := s.deck.pop(); err != nil {
				s.fail(fmt.Errorf("closing %q: %w", f.path, err))
				return false
			}
			continue
		}
		f.line++
		line := f.sc.Text()

		if strings.HasPrefix(line, s.stop) {
			if len(s.deck.frames) == 1 {
				// Root file: the section ends, the cursor stays
				// put for the next section.
				s.done = true
				return false
			}
			// Inside an include: the keyword ends that file only.
			if err := s.deck.pop(); err != nil {
				s.fail(fmt.Errorf("closing %q: %w", f.path, err))
				return false
			}
			continue
		}

		if target := includeTarget(line); target != "" {
			if err := s.deck.push(filepath.Join(f.dir, target)); err != nil {
				s.fail(err)
				return false
			}
			continue
		}

		s.line = line
		s.file = f.path
		s.num = f.line
		return true
	}
}

func (s *Section) fail(err error) {
	s.err = err
	s.deck.failed = true
	_ = s.deck.Close()
}

// Line returns the current line.
func (s *Section) Line() string { return s.line }

// File returns the path of the file that produced the current line.
func (s *Section) File() string { return s.file }

// LineNum returns the 1-based line number within File.
func (s *Section) LineNum() int { return s.num }

// Err returns the first fatal error hit while scanning, if any.
func (s *Section) Err() error { return s.err }
