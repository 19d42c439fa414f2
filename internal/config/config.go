package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
)

type Config struct {
	HTTPHost       string  `envconfig:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort       int     `envconfig:"HTTP_PORT" default:"8080" validate:"min=1,max=65535"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Logging        bool    `envconfig:"LOGGING" default:"false"`
	LatencySeconds float64 `envconfig:"LATENCY" default:"0" validate:"gte=0"`
	PhotosRoot     string  `envconfig:"PHOTOS_ROOT_FOLDER" default:"test_photos" validate:"required"`
	IndexPath      string  `envconfig:"INDEX_PATH" default:"index.html" validate:"required"`
	ChunkSizeKB    int     `envconfig:"CHUNK_SIZE_KB" default:"500" validate:"min=1"`
	ZipBinary      string  `envconfig:"ZIP_BINARY" default:"zip" validate:"required"`
}

func (c *Config) Latency() time.Duration {
	return time.Duration(c.LatencySeconds * float64(time.Second))
}

func (c *Config) ChunkSize() int {
	return c.ChunkSizeKB * 1024
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

func RegisterFlags(fs *pflag.FlagSet) {
	fs.Float64("latency", 0, "задержка между фрагментами архива, в секундах")
	fs.Bool("logging", false, "включить подробное логирование")
	fs.String("image_path", "", "каталог с папками фотографий")
	fs.String("host", "", "адрес для прослушивания")
	fs.Int("port", 0, "порт HTTP сервера")
	fs.String("index", "", "путь к index.html")
	fs.Int("chunk_kb", 0, "размер фрагмента архива, в КиБ")
	fs.String("zip", "", "путь к утилите zip")
}

// Load собирает конфигурацию: флаги > переменные окружения > значения по умолчанию.
// fs может быть nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnvParse, err)
	}

	if fs != nil {
		if err := applyFlags(&cfg, fs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFlagParse, err)
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &cfg, nil
}

func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "latency":
			cfg.LatencySeconds, err = fs.GetFloat64(f.Name)
		case "logging":
			cfg.Logging, err = fs.GetBool(f.Name)
		case "image_path":
			cfg.PhotosRoot, err = fs.GetString(f.Name)
		case "host":
			cfg.HTTPHost, err = fs.GetString(f.Name)
		case "port":
			cfg.HTTPPort, err = fs.GetInt(f.Name)
		case "index":
			cfg.IndexPath, err = fs.GetString(f.Name)
		case "chunk_kb":
			cfg.ChunkSizeKB, err = fs.GetInt(f.Name)
		case "zip":
			cfg.ZipBinary, err = fs.GetString(f.Name)
		}
	})
	return err
}
