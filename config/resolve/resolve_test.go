package resolve_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/resolve"
	"github.com/0xalexb/gconfig/config/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func databaseTemplate(t *testing.T) *template.Template {
	t.Helper()

	tmpl, err := template.New(template.SectionSpec{
		Name: "database",
		Parameters: []template.ParameterSpec{
			template.Param("db_server", model.KindString).AsRequired(),
			template.Param("log_days_to_keep", model.KindInteger).
				WithDefault(30).
				WithRules(template.Range{Min: 1, Max: 365}),
		},
	})
	require.NoError(t, err)

	return tmpl
}

func TestResolve_MissingRequiredOnly(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.EnsureSection("database")

	result := resolve.Resolve(tree, databaseTemplate(t))
	require.False(t, result.OK())
	assert.Nil(t, result.Tree)

	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.KindMissingRequired, result.Diagnostics[0].Kind)
	assert.Equal(t, "database.db_server", result.Diagnostics[0].Location)
	assert.Equal(t, diag.CategoryMissingRequired, result.Diagnostics[0].Kind.Category())

	err := result.Err()
	require.ErrorIs(t, err, diag.ErrInvalidConfig)
}

func TestResolve_RangeViolation(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.Set("database", "log_days_to_keep", model.Int(500))
	tree.Set("database", "db_server", model.String("test"))

	result := resolve.Resolve(tree, databaseTemplate(t))
	require.False(t, result.OK())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.KindRange, result.Diagnostics[0].Kind)
	assert.Equal(t, diag.CategoryValidationRule, result.Diagnostics[0].Kind.Category())
	assert.Equal(t, "database.log_days_to_keep", result.Diagnostics[0].Location)
}

func TestResolve_RequiresDependency(t *testing.T) {
	t.Parallel()

	tmpl, err := template.New(template.SectionSpec{
		Name: "csv",
		Parameters: []template.ParameterSpec{
			template.Param("csv_date_field", model.KindString).
				WithDependencies(template.Requires{Param: "csv_header_row"}),
			template.Param("csv_header_row", model.KindInteger),
		},
	})
	require.NoError(t, err)

	tree := model.NewTree()
	tree.Set("csv", "csv_date_field", model.String("date"))

	result := resolve.Resolve(tree, tmpl)
	require.False(t, result.OK())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, diag.CategoryDependency, result.Diagnostics[0].Kind.Category())
	assert.Contains(t, result.Diagnostics[0].Message, "csv.csv_date_field")
	assert.Contains(t, result.Diagnostics[0].Message, "csv.csv_header_row")

	tree.Set("csv", "csv_header_row", model.Int(1))
	assert.True(t, resolve.Resolve(tree, tmpl).OK(), "both present")

	assert.True(t, resolve.Resolve(model.NewTree(), tmpl).OK(), "both absent")
}

func TestResolve_DefaultsRoundTrip(t *testing.T) {
	t.Parallel()

	tree := model.NewTree()
	tree.Set("database", "db_server", model.String("db1"))

	result := resolve.Resolve(tree, databaseTemplate(t))
	require.True(t, result.OK(), result.Diagnostics.String())
	require.NotNil(t, result.Tree)

	days, ok := result.Tree.Get("database", "log_days_to_keep")
	require.True(t, ok)
	assert.True(t, days.Equal(model.Int(30)))
	assert.Equal(t, []string{"database.log_days_to_keep"}, result.Defaulted)

	assert.False(t, tree.Has("database", "log_days_to_keep"), "input is not modified")
}

func TestResolve_Idempotent(t *testing.T) {
	t.Parallel()

	tmpl := databaseTemplate(t)

	tree := model.NewTree()
	tree.Set("database", "db_server", model.String("db1"))
	tree.Set("database", "extra", model.String("kept"))

	first := resolve.Resolve(tree, tmpl)
	require.True(t, first.OK())

	second := resolve.Resolve(first.Tree, tmpl)
	require.True(t, second.OK())
	assert.True(t, first.Tree.Equal(second.Tree))
	assert.Equal(t, first.Diagnostics, second.Diagnostics)
	assert.Empty(t, second.Defaulted)
}

func TestResolve_Deterministic(t *testing.T) {
	t.Parallel()

	tmpl := databaseTemplate(t)

	tree := model.NewTree()
	tree.Set("database", "log_days_to_keep", model.String("abc"))
	tree.Set("other", "x", model.Int(1))

	first := resolve.Resolve(tree, tmpl)

	for range 5 {
		again := resolve.Resolve(tree, tmpl)
		assert.Equal(t, first.Diagnostics, again.Diagnostics)
		assert.Equal(t, first.Defaulted, again.Defaulted)
	}
}

func TestResolve_UnknownKeysNeverBlock(t *testing.T) {
	t.Parallel()

	tmpl, err := template.New(template.SectionSpec{
		Name:       "s",
		Parameters: []template.ParameterSpec{template.Param("a", model.KindString).WithDefault("x")},
	})
	require.NoError(t, err)

	tree := model.NewTree()
	tree.Set("nowhere", "k", model.String("v"))
	tree.Set("s", "stray", model.Int(1))

	result := resolve.Resolve(tree, tmpl)
	require.True(t, result.OK())
	assert.Len(t, result.Diagnostics, 2)
	assert.Empty(t, result.Diagnostics.Errors())

	strict := resolve.Resolve(tree, tmpl, resolve.WithUnknownSeverity(diag.SeverityError))
	assert.False(t, strict.OK())
}

func TestResolve_ConditionalSections(t *testing.T) {
	t.Parallel()

	tmpl, err := template.New(
		template.SectionSpec{Name: "output", Parameters: []template.ParameterSpec{
			template.Param("format", model.KindString).WithDefault("csv"),
			template.Param("archive", model.KindBool),
		}},
		template.SectionSpec{Name: "csv", RequiredIf: "output.format", Parameters: []template.ParameterSpec{
			template.Param("separator", model.KindString).WithDefault(","),
			template.Param("compress", model.KindBool).WithDefault(false),
		}},
		template.SectionSpec{Name: "archive", RequiredIf: "output.archive", Parameters: []template.ParameterSpec{
			template.Param("path", model.KindString).AsRequired(),
		}},
		template.SectionSpec{Name: "debug", Optional: true, Parameters: []template.ParameterSpec{
			template.Param("verbose", model.KindBool).WithDefault(true),
		}},
	)
	require.NoError(t, err)

	result := resolve.Resolve(nil, tmpl)
	require.True(t, result.OK(), result.Diagnostics.String())
	assert.Equal(t, []string{"output.format", "csv.separator", "csv.compress"}, result.Defaulted)
	assert.False(t, result.Tree.HasSection("debug"), "inactive optional sections get no defaults")
	assert.False(t, result.Tree.HasSection("archive"))

	tree := model.NewTree()
	tree.Set("output", "archive", model.String("yes"))

	result = resolve.Resolve(tree, tmpl)
	require.False(t, result.OK())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "archive.path", result.Diagnostics[0].Location)
}

func TestResolve_LogsDefaults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tree := model.NewTree()
	tree.Set("database", "db_server", model.String("db1"))

	result := resolve.New(databaseTemplate(t), resolve.WithLogger(logger)).Resolve(tree)
	require.True(t, result.OK())

	assert.Contains(t, buf.String(), "default applied")
	assert.Contains(t, buf.String(), "parameter=database.log_days_to_keep")
	assert.Contains(t, buf.String(), "defaults applied")
}

func TestResolve_ConcurrentUse(t *testing.T) {
	t.Parallel()

	resolver := resolve.New(databaseTemplate(t))

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func(days int64) {
			defer wg.Done()

			tree := model.NewTree()
			tree.Set("database", "db_server", model.String("db"))
			tree.Set("database", "log_days_to_keep", model.Int(days))

			result := resolver.Resolve(tree)
			assert.True(t, result.OK())
		}(int64(i + 1))
	}

	wg.Wait()
}

func TestResolve_SectionSet(t *testing.T) {
	t.Parallel()

	replicas := func(optional bool) *template.Template {
		tmpl, err := template.New(template.SectionSpec{
			Name:     "replica",
			Names:    []string{"replica1", "replica2"},
			Optional: optional,
			Parameters: []template.ParameterSpec{
				template.Param("host", model.KindString).AsRequired(),
				template.Param("lag", model.KindInteger).WithDefault(10),
			},
		})
		require.NoError(t, err)

		return tmpl
	}

	tree := model.NewTree()
	tree.Set("replica1", "host", model.String("db2"))

	result := resolve.Resolve(tree, replicas(false))
	require.False(t, result.OK())
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "replica2.host", result.Diagnostics[0].Location)
	assert.Equal(t, []string{"replica1.lag", "replica2.lag"}, result.Defaulted)

	result = resolve.Resolve(tree, replicas(true))
	require.True(t, result.OK(), result.Diagnostics.String())
	assert.Equal(t, []string{"replica1.lag"}, result.Defaulted)
	assert.False(t, result.Tree.HasSection("replica2"))
}
