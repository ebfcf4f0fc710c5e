package model_test

import (
	"testing"

	"github.com/0xalexb/gconfig/config/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce_Bool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr bool
	}{
		{name: "yes", input: "yes", want: true},
		{name: "upper YES", input: "YES", want: true},
		{name: "no", input: "No", want: false},
		{name: "true", input: "true", want: true},
		{name: "false with spaces", input: "  FALSE ", want: false},
		{name: "one is rejected", input: "1", wantErr: true},
		{name: "on is rejected", input: "on", wantErr: true},
		{name: "empty is rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := model.Coerce(model.String(tt.input), model.KindBool, model.KindInvalid)
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrTypeMismatch)

				return
			}

			require.NoError(t, err)
			assert.True(t, got.Equal(model.Bool(tt.want)))
		})
	}
}

func TestCoerce_Numbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   model.Value
		target  model.Kind
		want    model.Value
		wantErr bool
	}{
		{name: "string to integer", input: model.String(" 42 "), target: model.KindInteger, want: model.Int(42)},
		{name: "negative string to integer", input: model.String("-7"), target: model.KindInteger, want: model.Int(-7)},
		{name: "decimal string to integer fails", input: model.String("4.2"), target: model.KindInteger, wantErr: true},
		{name: "word to integer fails", input: model.String("many"), target: model.KindInteger, wantErr: true},
		{name: "integral float to integer", input: model.Float(30), target: model.KindInteger, want: model.Int(30)},
		{name: "fractional float to integer fails", input: model.Float(30.5), target: model.KindInteger, wantErr: true},
		{name: "string to float", input: model.String("0.25"), target: model.KindFloat, want: model.Float(0.25)},
		{name: "nan string to float fails", input: model.String("NaN"), target: model.KindFloat, wantErr: true},
		{name: "integer to float", input: model.Int(3), target: model.KindFloat, want: model.Float(3)},
		{name: "huge integer to float fails", input: model.Int(1<<60 + 1), target: model.KindFloat, wantErr: true},
		{name: "bool to integer fails", input: model.Bool(true), target: model.KindInteger, wantErr: true},
		{name: "integer to bool fails", input: model.Int(1), target: model.KindBool, wantErr: true},
		{name: "integer to string", input: model.Int(8080), target: model.KindString, want: model.String("8080")},
		{name: "bool to string", input: model.Bool(false), target: model.KindString, want: model.String("false")},
		{name: "list to string fails", input: model.List(model.String("a")), target: model.KindString, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := model.Coerce(tt.input, tt.target, model.KindInvalid)
			if tt.wantErr {
				require.ErrorIs(t, err, model.ErrTypeMismatch)

				return
			}

			require.NoError(t, err)
			assert.Truef(t, got.Equal(tt.want), "got %s, want %s", got.Quote(), tt.want.Quote())
		})
	}
}

func TestCoerce_List(t *testing.T) {
	t.Parallel()

	got, err := model.Coerce(model.String("[1, 2, 3]"), model.KindList, model.KindInteger)
	require.NoError(t, err)
	assert.True(t, got.Equal(model.List(model.Int(1), model.Int(2), model.Int(3))))

	got, err = model.Coerce(model.String("single"), model.KindList, model.KindInvalid)
	require.NoError(t, err)
	assert.True(t, got.Equal(model.List(model.String("single"))))

	got, err = model.Coerce(model.String("[]"), model.KindList, model.KindString)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	_, err = model.Coerce(model.List(model.String("1"), model.String("x")), model.KindList, model.KindInteger)
	require.ErrorIs(t, err, model.ErrTypeMismatch)
	assert.Contains(t, err.Error(), "list item 1")
}

func TestCoerce_IsDeterministic(t *testing.T) {
	t.Parallel()

	input := model.String("maybe")

	_, first := model.Coerce(input, model.KindBool, model.KindInvalid)
	_, second := model.Coerce(input, model.KindBool, model.KindInvalid)

	require.Error(t, first)
	assert.Equal(t, first.Error(), second.Error())
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, model.String("a").Equal(model.String("a")))
	assert.False(t, model.String("1").Equal(model.Int(1)))
	assert.False(t, model.Int(1).Equal(model.Float(1)))
	assert.True(t, model.List(model.Int(1), model.Bool(true)).Equal(model.List(model.Int(1), model.Bool(true))))
	assert.False(t, model.List(model.Int(1)).Equal(model.List(model.Int(1), model.Int(2))))

	a := model.NewSection("")
	a.Set("k", model.Int(1))

	b := model.NewSection("")
	b.Set("k", model.Int(1))
	b.Comment = "comments do not matter"

	assert.True(t, model.Nested(a).Equal(model.Nested(b)))
}

func TestValue_ListIsImmutable(t *testing.T) {
	t.Parallel()

	items := []model.Value{model.Int(1), model.Int(2)}
	list := model.List(items...)
	items[0] = model.Int(99)

	got, ok := list.AsList()
	require.True(t, ok)
	assert.True(t, got[0].Equal(model.Int(1)))

	got[1] = model.Int(42)

	again, _ := list.AsList()
	assert.True(t, again[1].Equal(model.Int(2)))
}

func TestFromAny(t *testing.T) {
	t.Parallel()

	got, err := model.FromAny([]any{"a", uint64(5), 1.5, true, map[string]any{"z": 1, "a": "x"}})
	require.NoError(t, err)

	items, ok := got.AsList()
	require.True(t, ok)
	require.Len(t, items, 5)
	assert.True(t, items[1].Equal(model.Int(5)))

	nested, ok := items[4].AsSection()
	require.True(t, ok)

	entries := nested.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "z", entries[1].Name)

	_, err = model.FromAny(struct{}{})
	require.ErrorIs(t, err, model.ErrUnsupportedValue)

	_, err = model.FromAny(uint64(1 << 63))
	require.ErrorIs(t, err, model.ErrUnsupportedValue)
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[a, 2, yes]", model.List(model.String("a"), model.Int(2), model.String("yes")).String())
	assert.Equal(t, "3.0", model.Float(3).String())
	assert.Equal(t, "0.5", model.Float(0.5).String())
	assert.Equal(t, "true", model.Bool(true).String())
	assert.Equal(t, `"x"`, model.String("x").Quote())
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	kind, err := model.ParseKind("Integer")
	require.NoError(t, err)
	assert.Equal(t, model.KindInteger, kind)

	kind, err = model.ParseKind("boolean")
	require.NoError(t, err)
	assert.Equal(t, model.KindBool, kind)

	_, err = model.ParseKind("decimal")
	require.Error(t, err)
}
