package vault

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StringList decodes either a YAML sequence or a single comma-separated scalar
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var out []string
		for _, part := range strings.Split(node.Value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		*l = out
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := node.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: tags must be a list or a string", node.Line)
}

// Frontmatter is the metadata block a note may start with
type Frontmatter struct {
	ID       string     `yaml:"id"`
	Title    string     `yaml:"title"`
	Category string     `yaml:"category"`
	Tags     StringList `yaml:"tags"`
	Created  *time.Time `yaml:"created"`
	Updated  *time.Time `yaml:"updated"`
}

// SyntaxError reports frontmatter that is not valid YAML. Line counts from
// the start of the file and is 0 when unknown.
type SyntaxError struct {
	Line int
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parsing frontmatter: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// frontmatterLine maps the line yaml reports to a file line. The opening
// delimiter takes the first line of the file.
func frontmatterLine(err error) int {
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n + 1
}

// File represents a markdown note on disk
type File struct {
	Path         string
	RelativePath string
	Frontmatter  Frontmatter
	Body         string
	Modified     time.Time
	hasMeta      bool
}

// HasFrontmatter returns true if the file has frontmatter
func (f *File) HasFrontmatter() bool {
	return f.hasMeta
}

// Parse extracts frontmatter and body from markdown content
func (f *File) Parse(content []byte) error {
	f.Frontmatter = Frontmatter{}
	f.hasMeta = false

	if !bytes.HasPrefix(content, []byte("---\n")) && !bytes.HasPrefix(content, []byte("---\r\n")) {
		f.Body = string(content)
		return nil
	}

	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		// unterminated block is plain content
		f.Body = text
		return nil
	}

	meta := strings.Join(lines[1:end], "\n")
	if strings.TrimSpace(meta) != "" {
		if err := yaml.Unmarshal([]byte(meta), &f.Frontmatter); err != nil {
			return &SyntaxError{Line: frontmatterLine(err), Err: err}
		}
		f.hasMeta = true
	}

	body := lines[end+1:]
	if len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	f.Body = strings.Join(body, "\n")
	return nil
}

// Heading returns the text of the first level-one heading in the body
func (f *File) Heading() string {
	for _, line := range strings.Split(f.Body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// BaseName is the file name without its markdown extension
func (f *File) BaseName() string {
	return strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
}

// LoadFile loads a single note file from a path
func LoadFile(path, relPath string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("getting file info: %w", err)
	}

	f := &File{
		Path:         path,
		RelativePath: filepath.ToSlash(relPath),
		Modified:     info.ModTime(),
	}
	if err := f.Parse(content); err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}
	return f, nil
}
