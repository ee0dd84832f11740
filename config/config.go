package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Port é fixo; não é lido do ambiente.
const Port = "5000"

const (
	BackendMongo     = "mongo"
	BackendPostgres  = "postgres"
	BackendFirestore = "firestore"
	BackendMemory    = "memory"
)

type Config struct {
	Env                     string        `env:"ENV" env-default:"dev"`
	DatabaseURI             string        `env:"DATABASE_URI"`
	StoreBackend            string        `env:"STORE_BACKEND" env-default:"mongo"`
	FirebaseCredentialsPath string        `env:"FIREBASE_CREDENTIALS_PATH"`
	CORSAllowedOrigins      []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	ConnectTimeout          time.Duration `env:"CONNECT_TIMEOUT" env-default:"10s"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load lê a configuração das variáveis de ambiente.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("erro ao ler variáveis de ambiente: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	switch c.StoreBackend {
	case BackendMongo, BackendPostgres:
		if c.DatabaseURI == "" {
			return fmt.Errorf("DATABASE_URI não está definido para o backend %q", c.StoreBackend)
		}
	case BackendFirestore:
		if c.FirebaseCredentialsPath == "" {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH não está definido nas variáveis de ambiente")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND desconhecido: %q", c.StoreBackend)
	}

	origins := c.CORSAllowedOrigins[:0]
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c.CORSAllowedOrigins = origins
	return nil
}
