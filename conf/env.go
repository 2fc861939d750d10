package conf

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ServerEnv configures `pyrite serve`.
type ServerEnv struct {
	Addr        string   `env:"PYRITE_ADDR"         envDefault:":8080"`
	CORSOrigins []string `env:"PYRITE_CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `env:"PYRITE_LOG_LEVEL"    envDefault:"info"`

	AwardsFile     string `env:"PYRITE_AWARDS_FILE"      envDefault:"awards.json"`
	AwardsS3Bucket string `env:"PYRITE_AWARDS_S3_BUCKET"`
	AwardsS3Region string `env:"PYRITE_AWARDS_S3_REGION" envDefault:"eu-central-1"`
	AwardsS3Key    string `env:"PYRITE_AWARDS_S3_KEY"    envDefault:"awards.json"`
}

// LoadServerEnv reads the environment, after loading the given .env files
// when they exist. Variables already set are not overridden.
func LoadServerEnv(envFiles ...string) (ServerEnv, error) {
	for _, f := range envFiles {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return ServerEnv{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg ServerEnv
	if err := env.Parse(&cfg); err != nil {
		return ServerEnv{}, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg, nil
}

func (e ServerEnv) UsesS3() bool {
	return e.AwardsS3Bucket != ""
}
