package hcl

import (
	"cmp"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"
)

// Format implements format.Format for HCL documents.
type Format struct{}

// New creates an HCL Format.
func New() *Format {
	return &Format{}
}

// Name implements format.Format.
func (f *Format) Name() string { return "hcl" }

// Extensions implements format.Format.
func (f *Format) Extensions() []string { return []string{".hcl"} }

// Parse reads top-level attributes into the root section and each block into
// the section named by its type. Nested blocks become dotted sections.
// Expressions are evaluated without variables or functions; null attributes
// are treated as absent. Block labels are not supported.
func (f *Format) Parse(data []byte) (*model.Tree, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %w", format.ErrSyntax, diags)
	}

	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected body type %T", format.ErrUnsupported, file.Body)
	}

	tree := model.NewTree()
	if err := readBody(tree, model.RootSection, body); err != nil {
		return nil, err
	}

	return tree, nil
}

func readBody(tree *model.Tree, section string, body *hclsyntax.Body) error {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}

	slices.SortFunc(attrs, func(a, b *hclsyntax.Attribute) int {
		return cmp.Compare(a.SrcRange.Start.Byte, b.SrcRange.Start.Byte)
	})

	for _, attr := range attrs {
		path := model.Path(section, attr.Name)

		raw, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("%w: %s: %w", format.ErrSyntax, path, diags)
		}

		if raw.IsNull() {
			continue
		}

		v, err := fromCty(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		tree.Set(section, attr.Name, v)
	}

	for _, block := range body.Blocks {
		if len(block.Labels) > 0 {
			return fmt.Errorf("%w: labels on block %q", format.ErrUnsupported, block.Type)
		}

		name := block.Type
		if section != model.RootSection {
			name = section + "." + block.Type
		}

		tree.EnsureSection(name)

		if err := readBody(tree, name, block.Body); err != nil {
			return err
		}
	}

	return nil
}

func fromCty(v cty.Value) (model.Value, error) {
	if !v.IsKnown() {
		return model.Value{}, fmt.Errorf("%w: unknown value", format.ErrUnsupported)
	}

	t := v.Type()

	switch {
	case t == cty.String:
		return model.String(v.AsString()), nil
	case t == cty.Bool:
		return model.Bool(v.True()), nil
	case t == cty.Number:
		return fromNumber(v.AsBigFloat()), nil
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		var items []model.Value

		for it := v.ElementIterator(); it.Next(); {
			_, elem := it.Element()

			item, err := fromCty(elem)
			if err != nil {
				return model.Value{}, fmt.Errorf("item %d: %w", len(items), err)
			}

			items = append(items, item)
		}

		return model.List(items...), nil
	case t.IsObjectType() || t.IsMapType():
		nested := model.NewSection("")

		for it := v.ElementIterator(); it.Next(); {
			key, elem := it.Element()

			item, err := fromCty(elem)
			if err != nil {
				return model.Value{}, fmt.Errorf("%s: %w", key.AsString(), err)
			}

			nested.Set(key.AsString(), item)
		}

		return model.Nested(nested), nil
	default:
		return model.Value{}, fmt.Errorf("%w: %s value", format.ErrUnsupported, t.FriendlyName())
	}
}

func fromNumber(bf *big.Float) model.Value {
	if bf.IsInt() {
		if i, acc := bf.Int64(); acc == big.Exact {
			return model.Int(i)
		}
	}

	fl, _ := bf.Float64()

	return model.Float(fl)
}

// Serialize writes root entries as top-level attributes and each section as
// a block, nesting dotted section names. Comments are written as `#` lines.
// Names must be valid HCL identifiers.
func (f *Format) Serialize(tree *model.Tree) ([]byte, error) {
	file := hclwrite.NewEmptyFile()
	if tree == nil {
		return file.Bytes(), nil
	}

	blocks := map[string]*hclwrite.Body{model.RootSection: file.Body()}

	if root, ok := tree.Section(model.RootSection); ok {
		if err := writeEntries(file.Body(), root); err != nil {
			return nil, err
		}
	}

	for _, section := range tree.Sections() {
		if section.Name() == model.RootSection {
			continue
		}

		body, err := blockFor(blocks, section.Name(), section.Comment)
		if err != nil {
			return nil, err
		}

		if err := writeEntries(body, section); err != nil {
			return nil, err
		}
	}

	return hclwrite.Format(file.Bytes()), nil
}

// blockFor returns the body of the block for a dotted section name, creating
// it and any missing parents.
func blockFor(blocks map[string]*hclwrite.Body, name, comment string) (*hclwrite.Body, error) {
	if body, ok := blocks[name]; ok {
		return body, nil
	}

	parent, typeName := model.RootSection, name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		parent, typeName = name[:i], name[i+1:]
	}

	if !hclsyntax.ValidIdentifier(typeName) {
		return nil, fmt.Errorf("%w: section name %q is not an HCL identifier", format.ErrUnsupported, name)
	}

	parentBody, err := blockFor(blocks, parent, "")
	if err != nil {
		return nil, err
	}

	if len(parentBody.Attributes()) > 0 || len(parentBody.Blocks()) > 0 {
		parentBody.AppendNewline()
	}

	writeComment(parentBody, comment)

	body := parentBody.AppendNewBlock(typeName, nil).Body()
	blocks[name] = body

	return body, nil
}

func writeEntries(body *hclwrite.Body, section *model.Section) error {
	for _, entry := range section.Entries() {
		path := model.Path(section.Name(), entry.Name)

		if !hclsyntax.ValidIdentifier(entry.Name) {
			return fmt.Errorf("%w: %s: name is not an HCL identifier", format.ErrUnsupported, path)
		}

		v, err := toCty(entry.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		writeComment(body, entry.Comment)
		body.SetAttributeValue(entry.Name, v)
	}

	return nil
}

func toCty(v model.Value) (cty.Value, error) {
	switch v.Kind() {
	case model.KindString:
		s, _ := v.AsString()

		return cty.StringVal(s), nil
	case model.KindInteger:
		i, _ := v.AsInt()

		return cty.NumberIntVal(i), nil
	case model.KindFloat:
		fl, _ := v.AsFloat()
		if math.IsNaN(fl) || math.IsInf(fl, 0) {
			return cty.NilVal, fmt.Errorf("%w: %s", format.ErrUnsupported, v)
		}

		return cty.NumberFloatVal(fl), nil
	case model.KindBool:
		b, _ := v.AsBool()

		return cty.BoolVal(b), nil
	case model.KindList:
		items, _ := v.AsList()
		if len(items) == 0 {
			return cty.EmptyTupleVal, nil
		}

		values := make([]cty.Value, 0, len(items))

		for _, item := range items {
			cv, err := toCty(item)
			if err != nil {
				return cty.NilVal, err
			}

			values = append(values, cv)
		}

		return cty.TupleVal(values), nil
	case model.KindSection:
		section, _ := v.AsSection()
		if section.Len() == 0 {
			return cty.EmptyObjectVal, nil
		}

		attrs := make(map[string]cty.Value, section.Len())

		for _, entry := range section.Entries() {
			cv, err := toCty(entry.Value)
			if err != nil {
				return cty.NilVal, err
			}

			attrs[entry.Name] = cv
		}

		return cty.ObjectVal(attrs), nil
	case model.KindInvalid:
		return cty.NilVal, fmt.Errorf("%w: empty value", format.ErrUnsupported)
	}

	return cty.NilVal, fmt.Errorf("%w: %s", format.ErrUnsupported, v.Kind())
}

func writeComment(body *hclwrite.Body, comment string) {
	if comment == "" {
		return
	}

	for line := range strings.SplitSeq(comment, "\n") {
		body.AppendUnstructuredTokens(hclwrite.Tokens{{
			Type:  hclsyntax.TokenComment,
			Bytes: []byte(strings.TrimRight("# "+line, " ") + "\n"),
		}})
	}
}
