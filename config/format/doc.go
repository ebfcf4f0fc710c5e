// Package format defines the Format interface implemented by the format
// adapters in its subpackages, and the Registry used to pick one by name or
// by file extension.
//
// Registries are explicit values; there is no process-wide default:
//
//	registry, err := format.NewRegistry(cfg.New(), yaml.New(), json.New(), toml.New(), hcl.New())
//	f, err := registry.ForPath("service.cfg")
//	tree, err := f.Parse(data)
//
// The builtin subpackage builds a Registry with every adapter.
package format
