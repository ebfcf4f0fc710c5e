// Package builtin assembles a format.Registry holding every format adapter
// shipped with gconfig.
package builtin

import (
	"github.com/0xalexb/gconfig/config/format"
	"github.com/0xalexb/gconfig/config/format/cfg"
	"github.com/0xalexb/gconfig/config/format/hcl"
	"github.com/0xalexb/gconfig/config/format/json"
	"github.com/0xalexb/gconfig/config/format/toml"
	"github.com/0xalexb/gconfig/config/format/yaml"
)

// Formats returns fresh instances of the builtin formats: cfg, yaml, json,
// toml and hcl, in that order.
func Formats() []format.Format {
	return []format.Format{cfg.New(), yaml.New(), json.New(), toml.New(), hcl.New()}
}

// NewRegistry returns a Registry holding Formats plus any extra formats.
func NewRegistry(extra ...format.Format) (*format.Registry, error) {
	return format.NewRegistry(append(Formats(), extra...)...)
}
