package toml

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"
)

// Format implements format.Format for TOML documents.
type Format struct{}

// New creates a TOML Format.
func New() *Format {
	return &Format{}
}

// Name implements format.Format.
func (f *Format) Name() string { return "toml" }

// Extensions implements format.Format.
func (f *Format) Extensions() []string { return []string{".toml"} }

// Parse reads a TOML document in order. A key-value pair belongs to the
// section named by its table header and the leading parts of a dotted key,
// joined with "."; the last key part is the parameter name. Inline tables
// become nested section values. Arrays of tables are not supported.
func (f *Format) Parse(data []byte) (*model.Tree, error) {
	tree := model.NewTree()

	var (
		table []string
		p     unstable.Parser
	)

	p.Reset(data)

	for p.NextExpression() {
		expr := p.Expression()

		switch expr.Kind {
		case unstable.Table:
			table = keyParts(expr.Key())
			tree.EnsureSection(strings.Join(table, "."))
		case unstable.ArrayTable:
			return nil, fmt.Errorf("%w: array of tables [[%s]]", format.ErrUnsupported, strings.Join(keyParts(expr.Key()), "."))
		case unstable.KeyValue:
			parts := append(append([]string(nil), table...), keyParts(expr.Key())...)
			name := parts[len(parts)-1]
			section := strings.Join(parts[:len(parts)-1], ".")

			v, err := toValue(expr.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", model.Path(section, name), err)
			}

			tree.Set(section, name, v)
		default:
		}
	}

	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", format.ErrSyntax, err)
	}

	return tree, nil
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}

	return parts
}

func toValue(node *unstable.Node) (model.Value, error) {
	switch node.Kind {
	case unstable.String:
		return model.String(string(node.Data)), nil
	case unstable.Bool:
		return model.Bool(string(node.Data) == "true"), nil
	case unstable.Integer:
		return parseInteger(string(node.Data))
	case unstable.Float:
		return parseFloat(string(node.Data))
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return model.String(string(node.Data)), nil
	case unstable.Array:
		var items []model.Value

		it := node.Children()
		for it.Next() {
			v, err := toValue(it.Node())
			if err != nil {
				return model.Value{}, fmt.Errorf("item %d: %w", len(items), err)
			}

			items = append(items, v)
		}

		return model.List(items...), nil
	case unstable.InlineTable:
		nested := model.NewSection("")

		it := node.Children()
		for it.Next() {
			kv := it.Node()
			parts := keyParts(kv.Key())

			v, err := toValue(kv.Value())
			if err != nil {
				return model.Value{}, fmt.Errorf("%s: %w", strings.Join(parts, "."), err)
			}

			setNested(nested, parts, v)
		}

		return model.Nested(nested), nil
	default:
		return model.Value{}, fmt.Errorf("%w: %s value", format.ErrUnsupported, node.Kind)
	}
}

// setNested stores v under a dotted key inside an inline table.
func setNested(section *model.Section, parts []string, v model.Value) {
	if len(parts) == 1 {
		section.Set(parts[0], v)

		return
	}

	child := model.NewSection("")
	if existing, ok := section.Get(parts[0]); ok {
		if s, ok := existing.AsSection(); ok {
			child = s
		}
	}

	setNested(child, parts[1:], v)
	section.Set(parts[0], model.Nested(child))
}

func parseInteger(text string) (model.Value, error) {
	clean := strings.ReplaceAll(text, "_", "")

	i, err := strconv.ParseInt(clean, 0, 64)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: integer %s: %w", format.ErrSyntax, text, err)
	}

	return model.Int(i), nil
}

func parseFloat(text string) (model.Value, error) {
	clean := strings.ReplaceAll(text, "_", "")

	switch strings.TrimPrefix(clean, "+") {
	case "inf":
		return model.Float(math.Inf(1)), nil
	case "-inf":
		return model.Float(math.Inf(-1)), nil
	case "nan", "-nan":
		return model.Float(math.NaN()), nil
	}

	fl, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return model.Value{}, fmt.Errorf("%w: float %s: %w", format.ErrSyntax, text, err)
	}

	return model.Float(fl), nil
}

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Serialize writes root entries first, then one table per section in tree
// order. Values are encoded by go-toml with nested sections as inline tables.
// Comments are written as `#` lines.
func (f *Format) Serialize(tree *model.Tree) ([]byte, error) {
	var buf bytes.Buffer

	if tree == nil {
		return buf.Bytes(), nil
	}

	if root, ok := tree.Section(model.RootSection); ok {
		if err := writeEntries(&buf, root); err != nil {
			return nil, err
		}
	}

	for _, section := range tree.Sections() {
		if section.Name() == model.RootSection {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}

		writeComment(&buf, section.Comment)
		fmt.Fprintf(&buf, "[%s]\n", tableName(section.Name()))

		if err := writeEntries(&buf, section); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func tableName(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = quoteKey(part)
	}

	return strings.Join(parts, ".")
}

func quoteKey(key string) string {
	if bareKey.MatchString(key) {
		return key
	}

	return strconv.Quote(key)
}

func writeEntries(buf *bytes.Buffer, section *model.Section) error {
	for _, entry := range section.Entries() {
		if !entry.Value.IsValid() {
			return fmt.Errorf("%w: %s has no value", format.ErrUnsupported, model.Path(section.Name(), entry.Name))
		}

		var line bytes.Buffer

		enc := toml.NewEncoder(&line)
		enc.SetTablesInline(true)

		if err := enc.Encode(map[string]any{entry.Name: entry.Value.Raw()}); err != nil {
			return fmt.Errorf("%w: %s: %w", format.ErrUnsupported, model.Path(section.Name(), entry.Name), err)
		}

		writeComment(buf, entry.Comment)
		buf.Write(line.Bytes())
	}

	return nil
}

func writeComment(buf *bytes.Buffer, comment string) {
	if comment == "" {
		return
	}

	for line := range strings.SplitSeq(comment, "\n") {
		fmt.Fprintf(buf, "# %s\n", line)
	}
}
