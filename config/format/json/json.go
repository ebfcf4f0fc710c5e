package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tidwall/jsonc"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"
)

// Format implements format.Format for JSON documents. Comments and trailing
// commas are accepted when parsing.
type Format struct {
	indent string
}

// New creates a JSON Format that indents output with two spaces.
func New() *Format {
	return &Format{indent: "  "}
}

// Name implements format.Format.
func (f *Format) Name() string { return "json" }

// Extensions implements format.Format.
func (f *Format) Extensions() []string { return []string{".json", ".jsonc"} }

// Parse decodes a JSON object into a tree, keeping member order. Top-level
// members holding an object (or null) become sections; other top-level members
// belong to the root section. Nested objects become nested section values and
// null members are skipped.
func (f *Format) Parse(data []byte) (*model.Tree, error) {
	clean := jsonc.ToJSON(data)
	if len(bytes.TrimSpace(clean)) == 0 {
		return model.NewTree(), nil
	}

	dec := json.NewDecoder(bytes.NewReader(clean))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	tree := model.NewTree()

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, syntaxError(err)
		}

		switch tok {
		case json.Delim('{'):
			section := tree.EnsureSection(key)
			if err := readObject(dec, section); err != nil {
				return nil, fmt.Errorf("section %s: %w", key, err)
			}
		case nil:
			tree.EnsureSection(key)
		default:
			v, err := readValue(dec, tok)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}

			tree.Set(model.RootSection, key, v)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", format.ErrSyntax)
	}

	return tree, nil
}

func syntaxError(err error) error {
	return fmt.Errorf("%w: %w", format.ErrSyntax, err)
}

func expectDelim(dec *json.Decoder, delim json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return syntaxError(err)
	}

	if tok != delim {
		return fmt.Errorf("%w: expected %s, got %v", format.ErrSyntax, delim, tok)
	}

	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", syntaxError(err)
	}

	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", format.ErrSyntax, tok)
	}

	return key, nil
}

// readObject reads members up to and including the closing brace.
func readObject(dec *json.Decoder, section *model.Section) error {
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return err
		}

		tok, err := dec.Token()
		if err != nil {
			return syntaxError(err)
		}

		if tok == nil {
			continue
		}

		v, err := readValue(dec, tok)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}

		section.Set(key, v)
	}

	return expectDelim(dec, '}')
}

func readValue(dec *json.Decoder, tok json.Token) (model.Value, error) {
	switch val := tok.(type) {
	case json.Delim:
		switch val {
		case '{':
			nested := model.NewSection("")
			if err := readObject(dec, nested); err != nil {
				return model.Value{}, err
			}

			return model.Nested(nested), nil
		case '[':
			return readArray(dec)
		}

		return model.Value{}, fmt.Errorf("%w: unexpected %s", format.ErrSyntax, val)
	case json.Number:
		if i, err := strconv.ParseInt(val.String(), 10, 64); err == nil {
			return model.Int(i), nil
		}

		fl, err := val.Float64()
		if err != nil {
			return model.Value{}, fmt.Errorf("%w: number %s: %w", format.ErrSyntax, val, err)
		}

		return model.Float(fl), nil
	case string:
		return model.String(val), nil
	case bool:
		return model.Bool(val), nil
	case nil:
		return model.Value{}, fmt.Errorf("%w: null list item", format.ErrUnsupported)
	}

	return model.Value{}, fmt.Errorf("%w: unexpected token %v", format.ErrSyntax, tok)
}

func readArray(dec *json.Decoder) (model.Value, error) {
	var items []model.Value

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return model.Value{}, syntaxError(err)
		}

		v, err := readValue(dec, tok)
		if err != nil {
			return model.Value{}, fmt.Errorf("item %d: %w", len(items), err)
		}

		items = append(items, v)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return model.Value{}, err
	}

	return model.List(items...), nil
}

// Serialize writes the tree as an indented JSON object in tree order. Root
// members come first. Comments are dropped.
func (f *Format) Serialize(tree *model.Tree) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true
	member := func(key string, write func() error) error {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		writeString(&buf, key)
		buf.WriteByte(':')

		return write()
	}

	if tree != nil {
		if root, ok := tree.Section(model.RootSection); ok {
			for _, entry := range root.Entries() {
				if err := member(entry.Name, func() error { return writeValue(&buf, entry.Value) }); err != nil {
					return nil, fmt.Errorf("%s: %w", entry.Name, err)
				}
			}
		}

		for _, section := range tree.Sections() {
			if section.Name() == model.RootSection {
				continue
			}

			if err := member(section.Name(), func() error { return writeSection(&buf, section) }); err != nil {
				return nil, fmt.Errorf("section %s: %w", section.Name(), err)
			}
		}
	}

	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", f.indent); err != nil {
		return nil, fmt.Errorf("indenting json: %w", err)
	}

	out.WriteByte('\n')

	return out.Bytes(), nil
}

func writeSection(buf *bytes.Buffer, section *model.Section) error {
	buf.WriteByte('{')

	for i, entry := range section.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}

		writeString(buf, entry.Name)
		buf.WriteByte(':')

		if err := writeValue(buf, entry.Value); err != nil {
			return fmt.Errorf("%s: %w", entry.Name, err)
		}
	}

	buf.WriteByte('}')

	return nil
}

func writeValue(buf *bytes.Buffer, v model.Value) error {
	switch v.Kind() {
	case model.KindString:
		s, _ := v.AsString()
		writeString(buf, s)
	case model.KindInteger:
		buf.WriteString(v.String())
	case model.KindFloat:
		fl, _ := v.AsFloat()
		if math.IsInf(fl, 0) || math.IsNaN(fl) {
			return fmt.Errorf("%w: %s is not representable in JSON", format.ErrUnsupported, v)
		}

		buf.WriteString(v.String())
	case model.KindBool:
		buf.WriteString(v.String())
	case model.KindList:
		items, _ := v.AsList()

		buf.WriteByte('[')

		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}

			if err := writeValue(buf, item); err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case model.KindSection:
		section, _ := v.AsSection()

		return writeSection(buf, section)
	case model.KindInvalid:
		return fmt.Errorf("%w: empty value", format.ErrUnsupported)
	}

	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshalling a string cannot fail.
	encoded, _ := json.Marshal(s)
	buf.Write(encoded)
}
