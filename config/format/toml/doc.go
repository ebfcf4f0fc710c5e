// Package toml provides the TOML format adapter, built on
// github.com/pelletier/go-toml/v2. Documents are read with the go-toml
// unstable parser so sections and keys keep their order.
package toml
