package cfg

import (
	"testing"

	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Parse(t *testing.T) {
	t.Parallel()

	data := []byte(`
app_name = reporter

# database connection
[database]
db_server = db1.example.com   # primary
log_days_to_keep = 30
replicas = [db2, "db3, east", 'db4']
; ignored key below
empty =
url = "http://host/#anchor"

[csv]
csv_date_field = date
csv_date_field = day
`)

	tree, err := New().Parse(data)
	require.NoError(t, err)

	name, ok := tree.Get(model.RootSection, "app_name")
	require.True(t, ok)
	assert.True(t, name.Equal(model.String("reporter")))

	server, _ := tree.Get("database", "db_server")
	assert.True(t, server.Equal(model.String("db1.example.com")))

	replicas, _ := tree.Get("database", "replicas")
	assert.True(t, replicas.Equal(model.List(model.String("db2"), model.String("db3, east"), model.String("db4"))))

	url, _ := tree.Get("database", "url")
	assert.True(t, url.Equal(model.String("http://host/#anchor")))

	assert.False(t, tree.Has("database", "empty"))

	field, _ := tree.Get("csv", "csv_date_field")
	assert.True(t, field.Equal(model.String("day")), "last value wins")

	section, ok := tree.Section("database")
	require.True(t, ok)
	assert.Equal(t, "database connection", section.Comment)

	sections := tree.Sections()
	require.Len(t, sections, 3)
	assert.Equal(t, []string{"", "database", "csv"}, []string{sections[0].Name(), sections[1].Name(), sections[2].Name()})
}

func TestFormat_ParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "missing equals", data: "[s]\njust text\n"},
		{name: "empty key", data: "[s]\n= value\n"},
		{name: "unterminated header", data: "[s\n"},
		{name: "empty header", data: "[ ]\n"},
		{name: "bad quoted value", data: "[s]\nk = \"abc\\q\"\n"},
		{name: "unterminated list quote", data: "[s]\nk = [\"a, b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New().Parse([]byte(tt.data))
			require.ErrorIs(t, err, format.ErrSyntax)
		})
	}
}

func TestFormat_Serialize(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.Set("database", "db_server", model.String("db1"))
	tree.Set("database", "use_tls", model.Bool(true))
	tree.Set("database", "ratio", model.Float(2))
	tree.Set("database", "hosts", model.List(model.String("a"), model.String("b, c")))
	tree.Set("database", "note", model.String(" padded # text"))
	tree.Set(model.RootSection, "name", model.String("svc"))

	section, _ := tree.Section("database")
	section.Comment = "database connection"
	section.SetComment("db_server", "server host\nrequired: must be filled in")

	out, err := New().Serialize(tree)
	require.NoError(t, err)

	assert.Equal(t, `name = svc

# database connection
[database]
# server host
# required: must be filled in
db_server = db1
use_tls = yes
ratio = 2.0
hosts = [a, "b, c"]
note = " padded # text"
`, string(out))

	back, err := New().Parse(out)
	require.NoError(t, err)

	hosts, _ := back.Get("database", "hosts")
	assert.True(t, hosts.Equal(model.List(model.String("a"), model.String("b, c"))))

	note, _ := back.Get("database", "note")
	assert.True(t, note.Equal(model.String(" padded # text")))
}

func TestFormat_SerializeRejectsNestedSections(t *testing.T) {
	t.Parallel()

	nested := model.NewSection("inner")
	nested.Set("k", model.Int(1))

	tree := model.NewTree()
	tree.Set("s", "table", model.Nested(nested))

	_, err := New().Serialize(tree)
	require.ErrorIs(t, err, format.ErrUnsupported)
}
