package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"
)

// ErrPathNotFound is returned when the specified path is not found in the YAML document.
var ErrPathNotFound = errors.New("path not found")

// Format implements format.Format for YAML documents.
// It uses goccy/go-yaml PathString for path navigation and ordered maps to
// keep the document order.
type Format struct {
	path string
}

// Option configures a Format.
type Option func(*Format)

// WithPath makes Parse read only the mapping found at path, using colon (:)
// as separator, e.g. "services:reporter".
func WithPath(path string) Option {
	return func(f *Format) {
		f.path = path
	}
}

// New creates a YAML Format.
func New(opts ...Option) *Format {
	f := &Format{}
	for _, apply := range opts {
		apply(f)
	}

	return f
}

// Name implements format.Format.
func (f *Format) Name() string { return "yaml" }

// Extensions implements format.Format.
func (f *Format) Extensions() []string { return []string{".yaml", ".yml"} }

// Parse decodes a YAML mapping into a tree. Top-level keys holding a mapping
// (or null) become sections; other top-level keys belong to the root section.
// Deeper mappings become nested section values. Null values are skipped.
func (f *Format) Parse(data []byte) (*model.Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.NewTree(), nil
	}

	var doc any

	if f.path == "" {
		if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
			return nil, fmt.Errorf("%w: %w", format.ErrSyntax, err)
		}
	} else {
		if err := readPath(data, f.path, &doc); err != nil {
			return nil, err
		}
	}

	if doc == nil {
		return model.NewTree(), nil
	}

	top, ok := doc.(yaml.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: document must be a mapping, got %T", format.ErrSyntax, doc)
	}

	tree := model.NewTree()

	for _, item := range top {
		key := fmt.Sprint(item.Key)

		switch val := item.Value.(type) {
		case nil:
			tree.EnsureSection(key)
		case yaml.MapSlice:
			section := tree.EnsureSection(key)

			if err := fill(section, val); err != nil {
				return nil, fmt.Errorf("section %s: %w", key, err)
			}
		default:
			v, err := toValue(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			tree.Set(model.RootSection, key, v)
		}
	}

	return tree, nil
}

func readPath(data []byte, path string, target *any) error {
	yamlPath := convertToYAMLPath(path)

	pathObj, err := yaml.PathString(yamlPath)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}

	node, err := pathObj.ReadNode(bytes.NewReader(data))
	if err != nil {
		if isKeyNotFoundError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		return fmt.Errorf("reading path %q: %w", path, err)
	}

	if err := yaml.NodeToValue(node, target, yaml.UseOrderedMap()); err != nil {
		return fmt.Errorf("%w: %w", format.ErrSyntax, err)
	}

	return nil
}

// convertToYAMLPath converts a colon-separated path to goccy/go-yaml PathString format.
// Examples:
//   - "key" -> "$.key"
//   - "api:permissions" -> "$.api.permissions"
func convertToYAMLPath(path string) string {
	parts := strings.Split(path, ":")

	return "$." + strings.Join(parts, ".")
}

// isKeyNotFoundError checks if the error indicates a key was not found.
func isKeyNotFoundError(err error) bool {
	return yaml.IsNotFoundNodeError(err)
}

func fill(section *model.Section, items yaml.MapSlice) error {
	for _, item := range items {
		if item.Value == nil {
			continue
		}

		key := fmt.Sprint(item.Key)

		v, err := toValue(item.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		section.Set(key, v)
	}

	return nil
}

func toValue(raw any) (model.Value, error) {
	switch val := raw.(type) {
	case yaml.MapSlice:
		nested := model.NewSection("")
		if err := fill(nested, val); err != nil {
			return model.Value{}, err
		}

		return model.Nested(nested), nil
	case []any:
		items := make([]model.Value, 0, len(val))

		for i, item := range val {
			v, err := toValue(item)
			if err != nil {
				return model.Value{}, fmt.Errorf("item %d: %w", i, err)
			}

			items = append(items, v)
		}

		return model.List(items...), nil
	case time.Time:
		return model.String(val.Format(time.RFC3339Nano)), nil
	case nil:
		return model.Value{}, fmt.Errorf("%w: null list item", format.ErrUnsupported)
	}

	v, err := model.FromAny(raw)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: %w", format.ErrUnsupported, err)
	}

	return v, nil
}

// plainKey matches keys that can be addressed in a comment path without quoting.
var plainKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Serialize writes the tree as a YAML mapping in tree order. Root keys come
// first; sections become mappings. Comments are written as head comments.
func (f *Format) Serialize(tree *model.Tree) ([]byte, error) {
	if tree == nil {
		return []byte{}, nil
	}

	var (
		doc      yaml.MapSlice
		comments = yaml.CommentMap{}
	)

	if root, ok := tree.Section(model.RootSection); ok {
		for _, entry := range root.Entries() {
			doc = append(doc, yaml.MapItem{Key: entry.Name, Value: fromValue(entry.Value)})
			addComment(comments, entry.Comment, entry.Name)
		}
	}

	for _, section := range tree.Sections() {
		if section.Name() == model.RootSection {
			continue
		}

		doc = append(doc, yaml.MapItem{Key: section.Name(), Value: fromSection(section)})
		addComment(comments, section.Comment, section.Name())

		for _, entry := range section.Entries() {
			addComment(comments, entry.Comment, section.Name(), entry.Name)
		}
	}

	if len(doc) == 0 {
		return []byte("{}\n"), nil
	}

	out, err := yaml.MarshalWithOptions(doc, yaml.WithComment(comments), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrUnsupported, err)
	}

	return out, nil
}

func addComment(comments yaml.CommentMap, text string, keys ...string) {
	if text == "" {
		return
	}

	for _, key := range keys {
		if !plainKey.MatchString(key) {
			return
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = " " + line
	}

	path := "$." + strings.Join(keys, ".")
	comments[path] = []*yaml.Comment{yaml.HeadComment(lines...)}
}

func fromSection(section *model.Section) yaml.MapSlice {
	out := make(yaml.MapSlice, 0, section.Len())
	for _, entry := range section.Entries() {
		out = append(out, yaml.MapItem{Key: entry.Name, Value: fromValue(entry.Value)})
	}

	return out
}

func fromValue(v model.Value) any {
	switch v.Kind() {
	case model.KindList:
		items, _ := v.AsList()
		out := make([]any, 0, len(items))

		for _, item := range items {
			out = append(out, fromValue(item))
		}

		return out
	case model.KindSection:
		section, _ := v.AsSection()

		return fromSection(section)
	case model.KindFloat:
		f, _ := v.AsFloat()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}

		return f
	case model.KindInvalid, model.KindString, model.KindInteger, model.KindBool:
		return v.Raw()
	}

	return v.Raw()
}
