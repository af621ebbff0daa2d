// Package vault stores notes as markdown files with YAML frontmatter.
package vault

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/eoinhurrell/mindmeld/internal/errors"
	"github.com/eoinhurrell/mindmeld/internal/model"
	"github.com/eoinhurrell/mindmeld/internal/validation"
)

// Namespace derives stable ids for notes without a frontmatter id
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/eoinhurrell/mindmeld/notes"))

// DefaultIgnorePatterns skips tool directories inside a vault
var DefaultIgnorePatterns = []string{".git/*", ".obsidian/*", ".mindmeld/*", ".trash/*"}

// Vault is a directory of markdown notes
type Vault struct {
	root    string
	scanner *Scanner
}

// New opens the vault rooted at root. Files that fail to parse or validate
// are skipped and reported by ParseErrors.
func New(root string, ignorePatterns []string) *Vault {
	if ignorePatterns == nil {
		ignorePatterns = DefaultIgnorePatterns
	}
	return &Vault{
		root:    root,
		scanner: NewScanner(WithIgnorePatterns(ignorePatterns), WithContinueOnErrors()),
	}
}

// Root is the vault directory
func (v *Vault) Root() string {
	return v.root
}

// Ignored reports whether a vault-relative path is excluded
func (v *Vault) Ignored(relPath string) bool {
	return v.scanner.Ignored(relPath)
}

// ParseErrors returns the files skipped by the last Notes call
func (v *Vault) ParseErrors() []ParseError {
	return v.scanner.ParseErrors()
}

// Notes loads every note, most recently created first
func (v *Vault) Notes(ctx context.Context) ([]model.Note, error) {
	info, err := os.Stat(v.root)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening vault: %s is not a directory", v.root)
	}

	files, err := v.scanner.Walk(ctx, v.root)
	if err != nil {
		return nil, fmt.Errorf("scanning vault: %w", err)
	}

	notes := make([]model.Note, 0, len(files))
	for _, f := range files {
		n := ToNote(f)
		if err := validation.Struct(n, f.RelativePath); err != nil {
			v.scanner.parseErrors = append(v.scanner.parseErrors, ParseError{Path: f.RelativePath, Error: err})
			continue
		}
		notes = append(notes, n)
	}

	SortRecentFirst(notes)
	return notes, nil
}

// Load reads the single note at a vault-relative path
func (v *Vault) Load(relPath string) (model.Note, error) {
	path, err := v.join(relPath)
	if err != nil {
		return model.Note{}, err
	}
	f, err := LoadFile(path, relPath)
	if err != nil {
		return model.Note{}, loadError(relPath, err)
	}
	n := ToNote(f)
	if err := validation.Struct(n, relPath); err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// loadError turns file failures into user errors naming the note file
func loadError(relPath string, err error) error {
	var syntaxErr *SyntaxError
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.NewFileNotFoundError(relPath, "Check that the path is relative to the vault root and the note still exists.")
	case stderrors.Is(err, fs.ErrPermission):
		return errors.NewPermissionError(relPath, "vault.load")
	case stderrors.As(err, &syntaxErr):
		return errors.NewInvalidSyntaxError(relPath, syntaxErr.Line, syntaxErr.Err.Error())
	}
	return err
}

// join resolves relPath inside the vault, rejecting paths that escape it
func (v *Vault) join(relPath string) (string, error) {
	if filepath.IsAbs(relPath) {
		return "", errors.NewInvalidValueError("path", fmt.Sprintf("%q must be relative to the vault", relPath), relPath)
	}
	path := filepath.Join(v.root, relPath)
	rel, err := filepath.Rel(v.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.NewInvalidValueError("path", fmt.Sprintf("%q is outside the vault", relPath), relPath)
	}
	return path, nil
}

// SortRecentFirst orders notes by creation time, newest first, then by id
func SortRecentFirst(notes []model.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
}

// ToNote converts a parsed file into a note. Missing metadata falls back to
// a path-derived id, the first heading or file name, and the file mtime.
func ToNote(f *File) model.Note {
	fm := f.Frontmatter

	id := strings.TrimSpace(fm.ID)
	if id == "" {
		id = uuid.NewSHA1(Namespace, []byte(f.RelativePath)).String()
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = f.Heading()
	}
	if title == "" {
		title = f.BaseName()
	}

	created := f.Modified
	if fm.Created != nil {
		created = *fm.Created
	}
	updated := created
	if fm.Updated != nil {
		updated = *fm.Updated
	} else if f.Modified.After(created) {
		updated = f.Modified
	}

	category := model.Category(strings.ToLower(strings.TrimSpace(fm.Category)))
	if category == "" {
		category = model.CategoryGeneral
	}

	return model.Note{
		ID:        id,
		Title:     title,
		Content:   strings.TrimSpace(f.Body),
		Category:  category,
		Tags:      append([]string{}, fm.Tags...),
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

type frontmatterOut struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title,omitempty"`
	Category string    `yaml:"category"`
	Tags     []string  `yaml:"tags,omitempty"`
	Created  time.Time `yaml:"created"`
	Updated  time.Time `yaml:"updated"`
}

// Marshal renders a note as markdown with frontmatter
func Marshal(n model.Note) ([]byte, error) {
	meta, err := yaml.Marshal(frontmatterOut{
		ID:       n.ID,
		Title:    n.Title,
		Category: string(n.Category),
		Tags:     n.Tags,
		Created:  n.CreatedAt.UTC(),
		Updated:  n.UpdatedAt.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(meta)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// Save writes a new note file named after its title and returns its path.
// Existing files are never overwritten.
func (v *Vault) Save(n model.Note) (string, error) {
	if err := validation.Struct(n, ""); err != nil {
		return "", err
	}
	content, err := Marshal(n)
	if err != nil {
		return "", err
	}

	base := validation.SanitizeFilename(n.DisplayTitle(40))
	candidates := []string{base + ".md", base + "-" + shortID(n.ID) + ".md"}
	for _, name := range candidates {
		path := filepath.Join(v.root, name)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			continue
		}
		if stderrors.Is(err, fs.ErrPermission) {
			return "", errors.NewPermissionError(path, "vault.save")
		}
		if err != nil {
			return "", fmt.Errorf("creating note file: %w", err)
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			return "", fmt.Errorf("writing note file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing note file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("a note file named %q already exists", base)
}

func shortID(id string) string {
	id = validation.SanitizeFilename(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
