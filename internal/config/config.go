package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const prefixo = "PORTAL"

type Config struct {
	App      AppConfig
	DB       DBConfig
	JWT      JWTConfig
	Politica PoliticaConfig
}

type AppConfig struct {
	Porta    string `envconfig:"PORTAL_PORTA" default:"8080"`
	LogLevel string `envconfig:"PORTAL_LOG_LEVEL" default:"info"`
}

type DBConfig struct {
	DSN string `envconfig:"PORTAL_DB_DSN" required:"true"`
}

type JWTConfig struct {
	Secret string        `envconfig:"PORTAL_JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"PORTAL_JWT_TTL" default:"24h"`
}

// PoliticaConfig guarda regras de negócio configuráveis.
type PoliticaConfig struct {
	// Exige ao menos um anexo na entrega antes de o prestador enviá-la para revisão.
	ExigirAnexoRevisao bool `envconfig:"PORTAL_EXIGIR_ANEXO_REVISAO" default:"true"`
}

func Carregar() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefixo, &cfg); err != nil {
		return nil, fmt.Errorf("lendo configuração: %w", err)
	}
	return &cfg, nil
}
