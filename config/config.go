package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Port the API server listens on
	Port int `env:"PORT" envDefault:"5250"`

	Database struct {
		// Driver selects the store backend: "sqlite" or "mysql"
		Driver string `env:"DB_DRIVER" envDefault:"sqlite"`

		// Path to the sqlite database file
		Path string `env:"DB_PATH" envDefault:"database/propwatch.db"`

		// DSN for the mysql driver, e.g. user:pass@tcp(host:3306)/propwatch?parseTime=true
		DSN string `env:"MYSQL_DSN"`
	}

	Search struct {
		// Meilisearch host; when empty the resolver only uses the store
		MeiliHost   string `env:"MEILI_HOST"`
		MeiliAPIKey string `env:"MEILI_API_KEY"`

		// Default result caps when the caller does not supply a limit
		SuggestLimit int `env:"SEARCH_SUGGEST_LIMIT" envDefault:"8"`
		ResultLimit  int `env:"SEARCH_RESULT_LIMIT" envDefault:"20"`
	}

	CORS struct {
		AllowedOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
