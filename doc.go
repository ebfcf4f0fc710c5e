// Package gconfig validates configuration files against declarative
// templates and substitutes defaults for whatever the files leave out.
//
// The building blocks live under config/: the value model, templates, the
// rule engine, the resolver, the sample generator and the format adapters.
// This package wires them into an Fx application:
//
//	app := gconfig.NewApp(
//	    gconfig.WithLogLevel("info"),
//	    gconfig.WithConfig("service",
//	        config.WithFile("service.cfg"),
//	        config.WithTemplateFile("service.template.yaml"),
//	    ),
//	    gconfig.WithModules(config.Bind[DatabaseConfig]("service", "database")),
//	)
//	app.Run()
package gconfig
