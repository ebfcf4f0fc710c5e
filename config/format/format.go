package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/0xalexb/gconfig/config/model"
)

var (
	// ErrUnknownFormat is returned when no registered format matches a name or path.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrDuplicateFormat is returned when a name or extension is registered twice.
	ErrDuplicateFormat = errors.New("duplicate format")
	// ErrSyntax is returned by Parse for malformed input.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupported is returned by Serialize for values the format cannot represent.
	ErrUnsupported = errors.New("unsupported value")
)

// Format converts between a textual configuration syntax and a model.Tree.
type Format interface {
	// Name is the registry key, e.g. "yaml".
	Name() string
	// Extensions lists file extensions including the dot, e.g. ".yml".
	Extensions() []string
	Parse(data []byte) (*model.Tree, error)
	Serialize(tree *model.Tree) ([]byte, error)
}

// Registry maps names and file extensions to formats. A Registry is built
// once and passed to whatever needs it; Register must not be called
// concurrently with lookups.
type Registry struct {
	formats []Format
	byName  map[string]Format
	byExt   map[string]Format
}

// NewRegistry creates a Registry holding the given formats.
func NewRegistry(formats ...Format) (*Registry, error) {
	registry := &Registry{
		byName: make(map[string]Format),
		byExt:  make(map[string]Format),
	}

	for _, f := range formats {
		if err := registry.Register(f); err != nil {
			return nil, err
		}
	}

	return registry, nil
}

// Register adds a format. Names and extensions are matched case-insensitively.
func (r *Registry) Register(f Format) error {
	name := strings.ToLower(f.Name())
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: name %q", ErrDuplicateFormat, name)
	}

	exts := make([]string, 0, len(f.Extensions()))

	for _, ext := range f.Extensions() {
		ext = strings.ToLower(ext)
		if _, ok := r.byExt[ext]; ok {
			return fmt.Errorf("%w: extension %q", ErrDuplicateFormat, ext)
		}

		exts = append(exts, ext)
	}

	r.byName[name] = f
	for _, ext := range exts {
		r.byExt[ext] = f
	}

	r.formats = append(r.formats, f)

	return nil
}

// Lookup returns the format registered under name.
//
//nolint:ireturn
func (r *Registry) Lookup(name string) (Format, error) {
	f, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	return f, nil
}

// ForPath returns the format registered for the extension of path.
//
//nolint:ireturn
func (r *Registry) ForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: no format for %q", ErrUnknownFormat, path)
	}

	return f, nil
}

// Resolve returns the format named by name, or the one matching path when
// name is empty.
//
//nolint:ireturn
func (r *Registry) Resolve(name, path string) (Format, error) {
	if name != "" {
		return r.Lookup(name)
	}

	return r.ForPath(path)
}

// Names returns the registered format names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.Name())
	}

	return names
}

// Convert parses data with src and serializes the tree with dst.
func Convert(src, dst Format, data []byte) ([]byte, error) {
	tree, err := src.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", src.Name(), err)
	}

	out, err := dst.Serialize(tree)
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", dst.Name(), err)
	}

	return out, nil
}

// SyntaxError builds an ErrSyntax error for a 1-based line number.
func SyntaxError(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}
