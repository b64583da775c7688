package memhost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/renameio"

	"github.com/jcorbin/flatmark/internal/richtext"
)

var (
	ErrShapeNotExists = errors.New("shape does not exist")
	ErrNothingToUndo  = errors.New("nothing to undo")

	errInvalidID = errors.New("invalid shape id")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Store keeps shapes as JSON files in a directory.
type Store struct {
	Dir string

	// Normalize overrides the NFC normalization of loaded frames; use
	// NoNormalize to disable it.
	Normalize func(string) string
}

// NoNormalize is an identity normalization.
func NoNormalize(s string) string { return s }

// Init creates the store directory.
func (st Store) Init() error {
	return os.MkdirAll(st.Dir, 0755)
}

// ready checks that the store directory exists; its errors are
// *richtext.HostNotReadyError.
func (st Store) ready() error {
	info, err := os.Stat(st.Dir)
	if err != nil {
		return &richtext.HostNotReadyError{Reason: "no store", Err: err}
	}
	if !info.IsDir() {
		return &richtext.HostNotReadyError{Reason: fmt.Sprintf("store %q is not a directory", st.Dir)}
	}
	return nil
}

func (st Store) path(id string) (string, error) {
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", errInvalidID, id)
	}
	return filepath.Join(st.Dir, id+".json"), nil
}

// Load reads a stored shape.
func (st Store) Load(id string) (sh Shape, _ error) {
	if err := st.ready(); err != nil {
		return sh, err
	}
	path, err := st.path(id)
	if err != nil {
		return sh, err
	}
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return sh, fmt.Errorf("%w: %q", ErrShapeNotExists, id)
	} else if err != nil {
		return sh, err
	}
	if err := json.Unmarshal(b, &sh); err != nil {
		return sh, fmt.Errorf("unable to decode shape %q: %w", id, err)
	}
	sh.ID = id
	return sh, nil
}

// Save atomically replaces the stored shape sh.ID.
func (st Store) Save(sh Shape) (rerr error) {
	if err := st.ready(); err != nil {
		return err
	}
	path, err := st.path(sh.ID)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(sh, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	pf, err := renameio.TempFile(st.Dir, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pf.Cleanup(); rerr == nil {
			rerr = cerr
		}
	}()
	if err := pf.Chmod(0644); err != nil {
		return err
	}
	if _, err := pf.Write(b); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}

// Connect returns a frame loaded from the stored shape id, or an empty frame
// if no such shape has been stored yet.
func (st Store) Connect(id string) (*Frame, error) {
	sh, err := st.Load(id)
	if errors.Is(err, ErrShapeNotExists) {
		sh, err = Shape{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	return st.frame(sh), nil
}

func (st Store) frame(sh Shape) *Frame {
	fr := Load(sh)
	if st.Normalize != nil {
		fr.Normalize = st.Normalize
	}
	return fr
}

// Rewrite flattens markdown into the shape id, saving the result along with
// the shape's prior text for Undo.
func (st Store) Rewrite(ctx context.Context, ap richtext.Applier, id, markdown string) (richtext.Report, error) {
	var (
		fr   *Frame
		prev string
	)
	rep, err := ap.Rewrite(ctx, func() (richtext.Host, error) {
		var err error
		fr, err = st.Connect(id)
		if err == nil {
			prev = fr.Shape().Text
		}
		return fr, err
	}, markdown)
	if err != nil {
		return rep, err
	}
	sh := fr.Shape()
	sh.ID = id
	sh.Previous = &prev
	return rep, st.Save(sh)
}

// Undo restores the shape's text from before its last rewrite, as plain
// unformatted text. Only one level of undo is kept.
func (st Store) Undo(ctx context.Context, id string) error {
	sh, err := st.Load(id)
	if err != nil {
		return err
	}
	if sh.Previous == nil {
		return fmt.Errorf("%w: %q", ErrNothingToUndo, id)
	}
	fr := st.frame(Shape{})
	if err := fr.Range().SetText(*sh.Previous); err != nil {
		return err
	}
	if err := fr.Sync(ctx); err != nil {
		return err
	}
	sh = fr.Shape()
	sh.ID = id
	return st.Save(sh)
}
