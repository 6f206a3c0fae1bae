package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Window struct {
	Open  string `koanf:"open"`
	Close string `koanf:"close"`
}

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		Brand    string `koanf:"brand"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
		Timezone string `koanf:"timezone"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Store struct {
		Windows []Window `koanf:"windows"`
	} `koanf:"store"`

	Delivery struct {
		Fee       int64 `koanf:"fee"`
		FreeAbove int64 `koanf:"free_above"`
	} `koanf:"delivery"`

	Storage struct {
		Driver       string        `koanf:"driver"` // redis | file
		Dir          string        `koanf:"dir"`
		TTL          time.Duration `koanf:"ttl"`
		Timeout      time.Duration `koanf:"timeout"`
		SessionCache int           `koanf:"session_cache"`
	} `koanf:"storage"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
		DB       int    `koanf:"db"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Catalog struct {
		Source  string        `koanf:"source"` // file | mysql
		Path    string        `koanf:"path"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"catalog"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Rabbit struct {
		URL         string `koanf:"url"`
		Exchange    string `koanf:"exchange"`
		RoutingKey  string `koanf:"routing_key"`
		ReloadQueue string `koanf:"reload_queue"` // optional catalog.published consumer
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers []string `koanf:"brokers"`
		GroupID string   `koanf:"group_id"`
		Topic   string   `koanf:"topic"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`

	Contact struct {
		Phone         string `koanf:"phone"`
		WhatsApp      string `koanf:"whatsapp"`
		DirectionsURL string `koanf:"directions_url"`
	} `koanf:"contact"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix CARTAPI_, nested with __)
	// e.g. CARTAPI_REDIS__ADDR, CARTAPI_STORAGE__DRIVER
	if err := k.Load(env.Provider("CARTAPI_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CARTAPI_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.App.HTTPAddr == "" {
		errs = append(errs, errors.New("app.http_addr required"))
	}
	if c.App.Brand == "" {
		errs = append(errs, errors.New("app.brand required"))
	}
	switch c.Storage.Driver {
	case "redis":
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis.addr required for storage.driver=redis"))
		}
	case "file":
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir required for storage.driver=file"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q: want redis or file", c.Storage.Driver))
	}
	switch c.Catalog.Source {
	case "file":
		if c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.path required for catalog.source=file"))
		}
	case "mysql":
		if c.MySQL.DSN == "" {
			errs = append(errs, errors.New("mysql.dsn required for catalog.source=mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog.source %q: want file or mysql", c.Catalog.Source))
	}
	if c.Security.JWTSecret == "" {
		errs = append(errs, errors.New("security.jwt_secret required"))
	}
	if _, err := c.Hours(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves app.timezone, defaulting to the host zone.
func (c Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app.timezone: %w", err)
	}
	return loc, nil
}

// Hours builds the service windows; an empty list means the default lunch
// and dinner windows.
func (c Config) Hours() (domain.StoreHours, error) {
	loc, err := c.Location()
	if err != nil {
		return domain.StoreHours{}, err
	}
	ws := make([]domain.Window, 0, len(c.Store.Windows))
	for i, w := range c.Store.Windows {
		open, err := domain.ParseClockTime(w.Open)
		if err != nil {
			return domain.StoreHours{}, fmt.Errorf("store.windows[%d].open: %w", i, err)
		}
		closeAt, err := domain.ParseClockTime(w.Close)
		if err != nil {
			return domain.StoreHours{}, fmt.Errorf("store.windows[%d].close: %w", i, err)
		}
		ws = append(ws, domain.Window{Open: open, Close: closeAt})
	}
	h, err := domain.NewStoreHours(loc, ws...)
	if err != nil {
		return domain.StoreHours{}, fmt.Errorf("store.windows: %w", err)
	}
	return h, nil
}

func (c Config) DeliveryRule() domain.DeliveryRule {
	if c.Delivery.Fee == 0 && c.Delivery.FreeAbove == 0 {
		return domain.DefaultDeliveryRule
	}
	return domain.DeliveryRule{Fee: c.Delivery.Fee, FreeAbove: c.Delivery.FreeAbove}
}

func (c Config) FallbackContact() domain.Contact {
	return domain.Contact{Phone: c.Contact.Phone, WhatsApp: c.Contact.WhatsApp, DirectionsURL: c.Contact.DirectionsURL}
}
