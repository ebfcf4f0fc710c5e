// Package config loads configuration files and checks them against a
// template.
//
// The package keeps four extension points:
//   - DataFetcher: retrieves raw config data (see config/fetcher/file)
//   - Parser: turns raw data into a *model.Tree (every config/format adapter is one)
//   - Defaulter: applies default values to a bound struct before validation
//   - Validator: validates a bound struct
//
// Load runs fetch, parse and resolve. Resolution (config/resolve) converts
// values to their declared types, substitutes defaults and reports every
// problem at once as a *diag.Error:
//
//	tmpl, err := template.LoadFile("service.template.yaml")
//	fetcher, err := file.NewFetcher("service.cfg")()
//	tree, err := config.Load(fetcher, cfg.New(), resolve.New(tmpl), logger)
//
// # Typed sections
//
// Provider binds one section of a resolved tree to a struct through its yaml
// tags, then runs SetDefaults and Validate when the struct implements them:
//
//	type DatabaseConfig struct {
//	    Server string `yaml:"db_server"`
//	    Port   int    `yaml:"port"`
//	}
//
//	db, err := config.Provider(&DatabaseConfig{}, "database")(tree)
//
// # Fx
//
// NewModule provides a named *model.Tree to an Fx container and Bind exposes
// a typed section of it:
//
//	fx.New(
//	    config.NewModule("service",
//	        config.WithDiscovery("SERVICE_CONFIG", "/etc/service/service.cfg"),
//	        config.WithTemplateFile("/etc/service/template.yaml"),
//	    ),
//	    config.Bind[DatabaseConfig]("service", "database"),
//	)
package config
