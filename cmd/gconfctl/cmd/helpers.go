package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xalexb/gconfig/config/diag"
	"github.com/0xalexb/gconfig/config/fetcher/file"
	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/format/builtin"
	"github.com/0xalexb/gconfig/config/model"
	"github.com/0xalexb/gconfig/config/resolve"
	"github.com/0xalexb/gconfig/config/template"
)

var (
	errTemplateRequired = errors.New("a template is required (--template)")
	errAlreadyExists    = errors.New("already exists, use --force to overwrite")
	errValidation       = errors.New("validation failed")
)

// loadTemplate reads the --template file. It returns nil when the flag is empty.
func (o *globalOptions) loadTemplate() (*template.Template, error) {
	if o.templatePath == "" {
		return nil, nil //nolint:nilnil // no template is a valid state
	}

	tmpl, err := template.LoadFile(o.templatePath)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", o.templatePath, err)
	}

	return tmpl, nil
}

func (o *globalOptions) requireTemplate() (*template.Template, error) {
	tmpl, err := o.loadTemplate()
	if err != nil {
		return nil, err
	}

	if tmpl == nil {
		return nil, errTemplateRequired
	}

	return tmpl, nil
}

// readTree parses path with the --format adapter or the one matching its extension.
func (o *globalOptions) readTree(path string) (*model.Tree, format.Format, error) {
	registry, err := builtin.NewRegistry()
	if err != nil {
		return nil, nil, err
	}

	f, err := registry.Resolve(o.format, path)
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := file.NewFetcher(path)()
	if err != nil {
		return nil, nil, err
	}

	data, err := fetcher.Fetch()
	if err != nil {
		return nil, nil, err
	}

	tree, err := f.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	o.logger.Debug("configuration read", "path", path, "format", f.Name(), "parameters", tree.Len())

	return tree, f, nil
}

// resolveTree resolves tree against tmpl and prints the diagnostics to w.
func (o *globalOptions) resolveTree(w io.Writer, tree *model.Tree, tmpl *template.Template) (resolve.Result, error) {
	result := resolve.New(tmpl, resolve.WithLogger(o.logger)).Resolve(tree)
	printDiagnostics(w, result.Diagnostics)

	if !result.OK() {
		return result, fmt.Errorf("%w: %d error(s)", errValidation, len(result.Diagnostics.Errors()))
	}

	return result, nil
}

// outputFormat picks the format named by name, or the one matching path, or fallback.
func outputFormat(name, path string, fallback format.Format) (format.Format, error) {
	if name == "" && path == "" {
		return fallback, nil
	}

	registry, err := builtin.NewRegistry()
	if err != nil {
		return nil, err
	}

	return registry.Resolve(name, path)
}

// writeOutput writes data to path, or to cmd's output when path is empty.
// An existing file is only replaced with force.
func writeOutput(cmd *cobra.Command, path string, data []byte, force bool) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)

		return err
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s %w", path, errAlreadyExists)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // config directories are world-readable
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config files are world-readable
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}

func printDiagnostics(w io.Writer, list diag.List) {
	for _, d := range list {
		fmt.Fprintln(w, d.String())
	}
}

// printTree lists every parameter as section.name = value, in tree order.
// With a non-empty filter only the matching section or parameter is listed.
func printTree(w io.Writer, tree *model.Tree, filter string) {
	for _, section := range tree.Sections() {
		for _, entry := range section.Entries() {
			path := model.Path(section.Name(), entry.Name)
			if filter != "" && path != filter && section.Name() != filter && !strings.HasPrefix(section.Name(), filter+".") {
				continue
			}

			fmt.Fprintf(w, "%s = %s\n", path, entry.Value)
		}
	}
}
