package hcl_test

import (
	"math"
	"strings"
	"testing"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/format/hcl"
	"github.com/0xalexb/gconfig/config/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Parse(t *testing.T) {
	t.Parallel()

	data := []byte(`
app_name = "reporter"

# reporting database
database {
  port      = 5432
  db_server = "db1"
  ratio     = 0.5
  use_tls   = true
  replicas  = ["db2", "db3"]
  unset     = null

  pool {
    size = 4
  }
}

zeta {}
`)

	tree, err := hcl.New().Parse(data)
	require.NoError(t, err)

	names := make([]string, 0, 4)
	for _, section := range tree.Sections() {
		names = append(names, section.Name())
	}

	assert.Equal(t, []string{"", "database", "database.pool", "zeta"}, names)

	database, ok := tree.Section("database")
	require.True(t, ok)

	entries := database.Entries()
	require.Len(t, entries, 5)
	assert.Equal(t, "port", entries[0].Name)
	assert.True(t, entries[0].Value.Equal(model.Int(5432)))
	assert.True(t, entries[2].Value.Equal(model.Float(0.5)))
	assert.True(t, entries[3].Value.Equal(model.Bool(true)))
	assert.True(t, entries[4].Value.Equal(model.List(model.String("db2"), model.String("db3"))))
	assert.False(t, database.Has("unset"))

	size, ok := tree.Get("database.pool", "size")
	require.True(t, ok)
	assert.True(t, size.Equal(model.Int(4)))
}

func TestFormat_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "syntax", input: "a = \n", wantErr: format.ErrSyntax},
		{name: "variable reference", input: "a = var.b\n", wantErr: format.ErrSyntax},
		{name: "labelled block", input: "server \"api\" {\n}\n", wantErr: format.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := hcl.New().Parse([]byte(tt.input))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormat_SerializeRoundTrip(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.Set(model.RootSection, "app_name", model.String("reporter"))
	tree.Set("database", "db_server", model.String("db1"))
	tree.Set("database", "port", model.Int(5432))
	tree.Set("database", "ratio", model.Float(0.25))
	tree.Set("database", "replicas", model.List(model.String("db2")))
	tree.Set("database.pool", "size", model.Int(4))

	section, _ := tree.Section("database")
	section.Comment = "reporting database"
	section.SetComment("port", "default: 5432")

	out, err := hcl.New().Serialize(tree)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "# reporting database\ndatabase {\n")
	assert.Contains(t, text, "  # default: 5432\n")
	assert.True(t, strings.Contains(text, "  pool {\n"), text)

	back, err := hcl.New().Parse(out)
	require.NoError(t, err)
	assert.True(t, tree.Equal(back), text)
}

func TestFormat_SerializeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func(*model.Tree)
	}{
		{name: "invalid section name", build: func(tree *model.Tree) { tree.Set("my app", "a", model.Int(1)) }},
		{name: "invalid key", build: func(tree *model.Tree) { tree.Set("app", "a b", model.Int(1)) }},
		{name: "infinite float", build: func(tree *model.Tree) { tree.Set("app", "a", model.Float(math.Inf(1))) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := model.NewTree()
			tt.build(tree)

			_, err := hcl.New().Serialize(tree)
			require.ErrorIs(t, err, format.ErrUnsupported)
		})
	}
}
