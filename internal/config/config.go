package config

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"paymentmcp/internal/payment"
)

// Transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Dealer   payment.DealerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Name      string `validate:"required"`
	Version   string `validate:"required"`
	Transport string `validate:"oneof=stdio sse"`
	Host      string
	Port      int `validate:"min=1,max=65535"`
}

type ProviderConfig struct {
	Name               string `validate:"required"`
	Sandbox            bool
	BaseURL            string `validate:"omitempty,url"`
	CommissionByDealer string
}

type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
	File  string
}

// Settings returns the provider settings chosen at startup.
func (p ProviderConfig) Settings() payment.Settings {
	return payment.Settings{Sandbox: p.Sandbox, BaseURL: p.BaseURL}
}

// Addr returns host:port for the SSE listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// flag name -> config key
var flagKeys = map[string]string{
	"provider":         "PROVIDER",
	"transport":        "TRANSPORT",
	"dealer-code":      "DEALER_CODE",
	"username":         "USERNAME",
	"password":         "PASSWORD",
	"customer-type-id": "CUSTOMER_TYPE_ID",
	"host":             "HOST",
	"port":             "PORT",
	"sandbox":          "MOKA_SANDBOX",
	"log-level":        "LOG_LEVEL",
}

// RegisterFlags defines the command-line flags. Flags override environment
// variables of the same meaning.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("provider", "moka", "Payment provider to use")
	fs.String("transport", TransportStdio, "MCP transport: stdio or sse")
	fs.String("dealer-code", "", "Dealer code")
	fs.String("username", "", "Username")
	fs.String("password", "", "Password")
	fs.String("customer-type-id", "2", "Customer type ID")
	fs.String("host", "0.0.0.0", "Server host (sse transport)")
	fs.Int("port", 8050, "Server port (sse transport)")
	fs.Bool("sandbox", false, "Use the gateway test environment")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
}

// Load reads configuration from .env file, environment variables and flags.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PROVIDER", "moka")
	v.SetDefault("TRANSPORT", TransportStdio)
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 8050)
	v.SetDefault("SERVER_NAME", "Payment MCP")
	v.SetDefault("SERVER_VERSION", "1.0.0")
	v.SetDefault("CUSTOMER_TYPE_ID", "2")
	v.SetDefault("MOKA_SANDBOX", false)
	v.SetDefault("COMMISSION_BY_DEALER", payment.DefaultCommissionByDealer)
	v.SetDefault("LOG_LEVEL", "info")

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Name:      v.GetString("SERVER_NAME"),
			Version:   v.GetString("SERVER_VERSION"),
			Transport: strings.ToLower(strings.TrimSpace(v.GetString("TRANSPORT"))),
			Host:      v.GetString("HOST"),
			Port:      v.GetInt("PORT"),
		},
		Provider: ProviderConfig{
			Name:               strings.ToLower(strings.TrimSpace(v.GetString("PROVIDER"))),
			Sandbox:            v.GetBool("MOKA_SANDBOX"),
			BaseURL:            v.GetString("MOKA_BASE_URL"),
			CommissionByDealer: v.GetString("COMMISSION_BY_DEALER"),
		},
		Dealer: payment.DealerConfig{
			DealerCode:     v.GetString("DEALER_CODE"),
			Username:       v.GetString("USERNAME"),
			Password:       v.GetString("PASSWORD"),
			CustomerTypeID: v.GetString("CUSTOMER_TYPE_ID"),
		},
		Log: LogConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
			File:  v.GetString("LOG_FILE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the structure of the configuration. The stdio transport
// takes its credentials from the environment, so they must be complete.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return payment.NewConfigurationError("Invalid configuration: "+describe(err), err)
	}

	known := false
	for _, name := range payment.AvailableProviders() {
		if name == c.Provider.Name {
			known = true
			break
		}
	}
	if !known {
		return payment.NewConfigurationError(fmt.Sprintf(
			"Unsupported provider '%s'. Available: %s",
			c.Provider.Name, strings.Join(payment.AvailableProviders(), ", "),
		), nil)
	}

	if c.Server.Transport == TransportStdio {
		if _, err := payment.CredentialsFromEnv(c.Dealer); err != nil {
			return payment.NewConfigurationError("Missing required Moka configuration: "+err.Error(), err)
		}
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// Store holds the active configuration. It changes only through Reload.
type Store struct {
	flags   *pflag.FlagSet
	current atomic.Pointer[Config]
}

// NewStore loads the initial configuration.
func NewStore(fs *pflag.FlagSet) (*Store, error) {
	s := &Store{flags: fs}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the active configuration snapshot.
func (s *Store) Current() *Config {
	return s.current.Load()
}

// Reload re-reads the environment and flags. On failure the previous
// configuration stays active.
func (s *Store) Reload() error {
	cfg, err := Load(s.flags)
	if err != nil {
		return err
	}
	s.current.Store(cfg)
	return nil
}
