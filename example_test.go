package gconfig_test

import (
	"errors"
	"fmt"

	"github.com/0xalexb/gconfig"
	"github.com/0xalexb/gconfig/config"

	"go.uber.org/fx"
)

// ServerConfig is the typed form of the [server] section of testdata/service.cfg.
// It implements both Defaulter and Validator interfaces from the config package.
type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Timeout int    `yaml:"timeout"`
}

// SetDefaults sets values the template cannot express.
func (c *ServerConfig) SetDefaults() bool {
	if c.Timeout == 0 {
		c.Timeout = 30

		return true
	}

	return false
}

// Validate validates the configuration.
func (c *ServerConfig) Validate() error {
	if c.Timeout < 1 {
		return errors.New("timeout must be positive")
	}

	return nil
}

// ServerService is a service that depends on config.
type ServerService struct {
	Config *ServerConfig
}

// Address returns the server address from config.
func (s *ServerService) Address() string {
	return fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
}

// Example_appWithConfigIntegration loads testdata/service.cfg, resolves it
// against testdata/service.template.yaml and injects the [server] section.
func Example_appWithConfigIntegration() {
	serviceModule := fx.Module("service",
		config.Bind[ServerConfig]("service", "server"),
		fx.Provide(fx.Annotate(func(cfg *ServerConfig) *ServerService {
			return &ServerService{Config: cfg}
		}, fx.ParamTags(`name:"service"`))),
	)

	var service *ServerService

	app := gconfig.NewApp(
		gconfig.WithLogLevel("error"),
		gconfig.WithConfig("service",
			config.WithFile("testdata/service.cfg"),
			config.WithTemplateFile("testdata/service.template.yaml"),
		),
		gconfig.WithModules(serviceModule, fx.Invoke(func(s *ServerService) {
			service = s
		})),
	)

	err := app.Start()
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop() }()

	fmt.Printf("Server address: %s\n", service.Address())
	fmt.Printf("Timeout: %d\n", service.Config.Timeout)
	// Output:
	// Server address: api.example.com:9000
	// Timeout: 30
}
