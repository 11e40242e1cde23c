package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cmreports/internal/components/telemetry"
	"cmreports/internal/scrapers/cargamaquina"
	"cmreports/internal/service"
	"cmreports/pkg/configutil"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Port int `json:"port"`
	// AccessToken guards the connect api, empty leaves it open.
	AccessToken string `json:"access_token"`

	Site        cargamaquina.ClientOptions `json:"site"`
	Credentials Credentials                `json:"credentials"`

	Window                   service.Window `json:"window"`
	StandaloneTimeoutSeconds int            `json:"standalone_timeout_seconds"`

	Telemetry telemetry.Config `json:"telemetry"`
}

func (c Config) StandaloneTimeout() time.Duration {
	return time.Duration(c.StandaloneTimeoutSeconds) * time.Second
}

func defaults() Config {
	return Config{
		Port:                     8000,
		Site:                     cargamaquina.DefaultClientOptions(),
		Window:                   service.DefaultWindow(),
		StandaloneTimeoutSeconds: 30,
	}
}

// Load reads path (and its .local override) and applies the environment,
// .env included. A missing config file is fine as long as the environment
// provides what is required.
func Load(path string) (Config, error) {
	err := configutil.LoadDotenv()
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}
	cfg = withDefaults(cfg)

	configutil.OverrideString(&cfg.Credentials.Username, "CM_USERNAME")
	configutil.OverrideString(&cfg.Credentials.Password, "CM_PASSWORD")
	configutil.OverrideString(&cfg.Site.BaseUrl, "CM_BASE_URL")
	configutil.OverrideString(&cfg.AccessToken, "CMREPORTS_ACCESS_TOKEN")
	configutil.OverrideInt(&cfg.Port, "PORT")

	return cfg, cfg.Validate()
}

func withDefaults(cfg Config) Config {
	def := defaults()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.Site.LoginPath == "" {
		cfg.Site.LoginPath = def.Site.LoginPath
	}
	if cfg.Site.ConnectionCode == "" {
		cfg.Site.ConnectionCode = def.Site.ConnectionCode
	}
	if cfg.Site.RequestsPerSecond <= 0 {
		cfg.Site.RequestsPerSecond = def.Site.RequestsPerSecond
	}
	if cfg.Site.Burst <= 0 {
		cfg.Site.Burst = def.Site.Burst
	}
	if cfg.Window == (service.Window{}) {
		cfg.Window = def.Window
	}
	if cfg.StandaloneTimeoutSeconds <= 0 {
		cfg.StandaloneTimeoutSeconds = def.StandaloneTimeoutSeconds
	}
	return cfg
}

func (c Config) Validate() error {
	var errs []error
	if c.Site.BaseUrl == "" {
		errs = append(errs, errors.New("site.base_url (CM_BASE_URL) is required"))
	}
	if c.Credentials.Username == "" || c.Credentials.Password == "" {
		errs = append(errs, errors.New("credentials (CM_USERNAME, CM_PASSWORD) are required"))
	}
	if c.Site.Endpoints.SalesBacklog == "" ||
		c.Site.Endpoints.ProductionBacklog == "" ||
		c.Site.Endpoints.PendingMaterials == "" {
		errs = append(errs, errors.New("site.endpoints must list every report"))
	}
	if c.Window.LookbackDays < 0 || c.Window.LookaheadDays < 0 {
		errs = append(errs, errors.New("window days cannot be negative"))
	}
	return errors.Join(errs...)
}
