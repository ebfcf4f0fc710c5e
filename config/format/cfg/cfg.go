package cfg

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"
)

// Format implements format.Format for INI-style .cfg files.
type Format struct{}

// New creates a cfg Format.
func New() *Format {
	return &Format{}
}

// Name implements format.Format.
func (f *Format) Name() string { return "cfg" }

// Extensions implements format.Format.
func (f *Format) Extensions() []string { return []string{".cfg", ".ini", ".conf"} }

// Parse reads `[section]` headers and `key = value` lines. Keys before the
// first header belong to the root section. Values are kept as text; a value
// written as `[a, b]` becomes a list. Comment lines directly above a header or
// key are attached to it. A key with an empty value is ignored; a repeated key
// keeps its last value.
func (f *Format) Parse(data []byte) (*model.Tree, error) {
	tree := model.NewTree()
	section := model.RootSection

	var pending []string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			pending = nil

			continue
		case line[0] == '#' || line[0] == ';':
			pending = append(pending, strings.TrimSpace(line[1:]))

			continue
		case line[0] == '[':
			name, err := parseHeader(lineNo, line)
			if err != nil {
				return nil, err
			}

			section = name
			target := tree.EnsureSection(name)

			if len(pending) > 0 {
				target.Comment = strings.Join(pending, "\n")
				pending = nil
			}

			continue
		}

		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, format.SyntaxError(lineNo, "expected key = value, got %q", line)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, format.SyntaxError(lineNo, "empty key")
		}

		raw = stripComment(strings.TrimSpace(raw))
		if raw == "" {
			pending = nil

			continue
		}

		value, err := parseValue(raw)
		if err != nil {
			return nil, format.SyntaxError(lineNo, "%v", err)
		}

		tree.Set(section, key, value)

		if len(pending) > 0 {
			target, _ := tree.Section(section)
			target.SetComment(key, strings.Join(pending, "\n"))
			pending = nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cfg: %w", err)
	}

	return tree, nil
}

func parseHeader(lineNo int, line string) (string, error) {
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return "", format.SyntaxError(lineNo, "unterminated section header %q", line)
	}

	if rest := stripComment(strings.TrimSpace(line[end+1:])); rest != "" {
		return "", format.SyntaxError(lineNo, "unexpected text after section header: %q", rest)
	}

	name := strings.TrimSpace(line[1:end])
	if name == "" {
		return "", format.SyntaxError(lineNo, "empty section name")
	}

	return name, nil
}

// stripComment removes a trailing `#` comment that is outside quotes and
// preceded by whitespace.
func stripComment(text string) string {
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#' && (i == 0 || text[i-1] == ' ' || text[i-1] == '\t'):
			return strings.TrimSpace(text[:i])
		}
	}

	return text
}

func parseValue(raw string) (model.Value, error) {
	if len(raw) >= 2 && raw[0] == '[' && raw[len(raw)-1] == ']' {
		parts, err := splitList(raw[1 : len(raw)-1])
		if err != nil {
			return model.Value{}, err
		}

		items := make([]model.Value, 0, len(parts))

		for _, part := range parts {
			text, err := unquote(part)
			if err != nil {
				return model.Value{}, err
			}

			items = append(items, model.String(text))
		}

		return model.List(items...), nil
	}

	text, err := unquote(raw)
	if err != nil {
		return model.Value{}, err
	}

	return model.String(text), nil
}

// splitList splits comma-separated list items, honouring quotes.
func splitList(inner string) ([]string, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}

	var (
		parts []string
		quote byte
		start int
	)

	for i := 0; i < len(inner); i++ {
		c := inner[i]

		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ',':
			parts = append(parts, strings.TrimSpace(inner[start:i]))
			start = i + 1
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in list %q", inner)
	}

	parts = append(parts, strings.TrimSpace(inner[start:]))

	return parts, nil
}

func unquote(text string) (string, error) {
	if len(text) < 2 {
		return text, nil
	}

	switch {
	case text[0] == '"' && text[len(text)-1] == '"':
		s, err := strconv.Unquote(text)
		if err != nil {
			return "", fmt.Errorf("invalid quoted value %s: %w", text, err)
		}

		return s, nil
	case text[0] == '\'' && text[len(text)-1] == '\'':
		return text[1 : len(text)-1], nil
	}

	return text, nil
}

// Serialize writes the tree with booleans as yes/no and lists as `[a, b]`.
// Comments are written as `#` lines. Nested section values are rejected.
func (f *Format) Serialize(tree *model.Tree) ([]byte, error) {
	var buf bytes.Buffer

	if tree == nil {
		return buf.Bytes(), nil
	}

	sections := tree.Sections()

	// Root keys must precede the first header.
	if root, ok := tree.Section(model.RootSection); ok {
		if err := writeEntries(&buf, root); err != nil {
			return nil, err
		}
	}

	for _, section := range sections {
		if section.Name() == model.RootSection {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}

		writeComment(&buf, section.Comment)
		fmt.Fprintf(&buf, "[%s]\n", section.Name())

		if err := writeEntries(&buf, section); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func writeEntries(buf *bytes.Buffer, section *model.Section) error {
	for _, entry := range section.Entries() {
		text, err := render(entry.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", model.Path(section.Name(), entry.Name), err)
		}

		writeComment(buf, entry.Comment)
		fmt.Fprintf(buf, "%s = %s\n", entry.Name, text)
	}

	return nil
}

func writeComment(buf *bytes.Buffer, comment string) {
	if comment == "" {
		return
	}

	for line := range strings.SplitSeq(comment, "\n") {
		if line == "" {
			buf.WriteString("#\n")

			continue
		}

		fmt.Fprintf(buf, "# %s\n", line)
	}
}

func render(v model.Value) (string, error) {
	switch v.Kind() {
	case model.KindString:
		s, _ := v.AsString()

		return quoteIfNeeded(s, false), nil
	case model.KindBool:
		b, _ := v.AsBool()
		if b {
			return "yes", nil
		}

		return "no", nil
	case model.KindInteger, model.KindFloat:
		return v.String(), nil
	case model.KindList:
		items, _ := v.AsList()
		parts := make([]string, 0, len(items))

		for _, item := range items {
			if !item.Kind().Scalar() {
				return "", fmt.Errorf("%w: cfg lists hold scalars only, got %s", format.ErrUnsupported, item.Kind())
			}

			text, err := render(item)
			if err != nil {
				return "", err
			}

			if item.Kind() == model.KindString {
				s, _ := item.AsString()
				text = quoteIfNeeded(s, true)
			}

			parts = append(parts, text)
		}

		return "[" + strings.Join(parts, ", ") + "]", nil
	case model.KindSection:
		return "", fmt.Errorf("%w: cfg cannot hold nested sections", format.ErrUnsupported)
	case model.KindInvalid:
		return "", fmt.Errorf("%w: empty value", format.ErrUnsupported)
	}

	return "", fmt.Errorf("%w: %s", format.ErrUnsupported, v.Kind())
}

// quoteIfNeeded quotes text that would otherwise read back differently.
func quoteIfNeeded(text string, inList bool) string {
	needs := text == "" ||
		strings.TrimSpace(text) != text ||
		strings.ContainsAny(text, "#\n\r\"'") ||
		strings.HasPrefix(text, "[") ||
		(inList && strings.ContainsAny(text, ",]"))

	if needs {
		return strconv.Quote(text)
	}

	return text
}
