package config

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/resolve"
	"github.com/0xalexb/gconfig/config/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockParser struct {
	parseFunc func(data []byte) (*model.Tree, error)
}

func (m *mockParser) Parse(data []byte) (*model.Tree, error) {
	return m.parseFunc(data)
}

type mockDataFetcher struct {
	fetchFunc func() ([]byte, error)
}

func (m *mockDataFetcher) Fetch() ([]byte, error) {
	return m.fetchFunc()
}

func staticFetcher(data string) *mockDataFetcher {
	return &mockDataFetcher{fetchFunc: func() ([]byte, error) { return []byte(data), nil }}
}

func treeParser(tree *model.Tree) *mockParser {
	return &mockParser{parseFunc: func([]byte) (*model.Tree, error) { return tree, nil }}
}

func serverTemplate(t *testing.T) *template.Template {
	t.Helper()

	tmpl, err := template.New(template.SectionSpec{
		Name: "server",
		Parameters: []template.ParameterSpec{
			template.Param("host", model.KindString).AsRequired(),
			template.Param("port", model.KindInteger).WithDefault(8080).WithRules(template.Range{Min: 1, Max: 65535}),
		},
	})
	require.NoError(t, err)

	return tmpl
}

func TestLoad_Resolves(t *testing.T) {
	t.Parallel()

	input := model.NewTree()
	input.Set("server", "host", model.String("api.example.com"))
	input.Set("server", "debug", model.String("yes"))

	var logs bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&logs, nil))
	resolver := resolve.New(serverTemplate(t), resolve.WithLogger(logger))

	tree, err := Load(staticFetcher("data"), treeParser(input), resolver, logger)
	require.NoError(t, err)

	port, ok := tree.Get("server", "port")
	require.True(t, ok)
	assert.True(t, port.Equal(model.Int(8080)))
	assert.Contains(t, logs.String(), "unknown parameter")
	assert.Contains(t, logs.String(), "location=server.debug")
}

func TestLoad_WithoutResolver(t *testing.T) {
	t.Parallel()

	input := model.NewTree()
	input.Set("anything", "goes", model.Int(1))

	tree, err := Load(staticFetcher("data"), treeParser(input), nil, nil)
	require.NoError(t, err)
	assert.Same(t, input, tree)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("fetch failed")
	parseErr := errors.New("parse failed")

	tests := []struct {
		name    string
		fetcher DataFetcher
		parser  Parser
		wantErr error
	}{
		{
			name:    "fetch error",
			fetcher: &mockDataFetcher{fetchFunc: func() ([]byte, error) { return nil, fetchErr }},
			parser:  treeParser(model.NewTree()),
			wantErr: fetchErr,
		},
		{
			name:    "parse error",
			fetcher: staticFetcher("data"),
			parser:  &mockParser{parseFunc: func([]byte) (*model.Tree, error) { return nil, parseErr }},
			wantErr: parseErr,
		},
		{
			name:    "validation error",
			fetcher: staticFetcher("data"),
			parser:  treeParser(model.NewTree()),
			wantErr: diag.ErrInvalidConfig,
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			tree, err := Load(testInfo.fetcher, testInfo.parser, resolve.New(serverTemplate(t)), nil)
			require.ErrorIs(t, err, testInfo.wantErr)
			assert.Nil(t, tree)
		})
	}

	_, err := Load(staticFetcher("data"), treeParser(model.NewTree()), resolve.New(serverTemplate(t)), nil)

	var diagErr *diag.Error
	require.ErrorAs(t, err, &diagErr)
	require.Len(t, diagErr.Diagnostics.ByKind(diag.KindMissingRequired), 1)
	assert.Equal(t, "server.host", diagErr.Diagnostics[0].Location)
}

type serverConfig struct {
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	Aliases []string `yaml:"aliases"`
	changed bool
	err     error
}

func (c *serverConfig) SetDefaults() bool {
	if len(c.Aliases) == 0 {
		c.Aliases = []string{c.Host}
		c.changed = true
	}

	return c.changed
}

func (c *serverConfig) Validate() error {
	return c.err
}

func TestProvider_Success(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.Set("server", "host", model.String("api"))
	tree.Set("server", "port", model.Int(9000))

	target := &serverConfig{}

	result, err := Provider(target, "server")(tree)
	require.NoError(t, err)
	assert.Same(t, target, result)
	assert.Equal(t, "api", result.Host)
	assert.Equal(t, 9000, result.Port)
	assert.Equal(t, []string{"api"}, result.Aliases)
	assert.True(t, result.changed)
}

func TestProvider_Errors(t *testing.T) {
	t.Parallel()

	validationErr := errors.New("validation failed")

	tree := model.NewTree()
	tree.Set("server", "host", model.String("api"))
	tree.Set("broken", "port", model.String("not a number"))

	tests := []struct {
		name    string
		section string
		target  *serverConfig
		wantErr error
	}{
		{
			name:    "missing section",
			section: "client",
			target:  &serverConfig{},
			wantErr: ErrSectionNotFound,
		},
		{
			name:    "validation error",
			section: "server",
			target:  &serverConfig{err: validationErr},
			wantErr: validationErr,
		},
	}

	for _, testInfo := range tests {
		t.Run(testInfo.name, func(t *testing.T) {
			t.Parallel()

			result, err := Provider(testInfo.target, testInfo.section)(tree)
			require.ErrorIs(t, err, testInfo.wantErr)
			assert.Nil(t, result)
		})
	}

	result, err := Provider(&serverConfig{}, "broken")(tree)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing error")
	assert.Nil(t, result)
}
