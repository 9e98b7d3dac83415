package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type serverConfig struct {
	Port        int    `koanf:"port" validate:"required"`
	Mode        string `koanf:"mode" validate:"required"`
	Concurrency int    `koanf:"concurrency" validate:"required"`
	BodyLimit   int    `koanf:"body_limit" validate:"required"`
	AppName     string `koanf:"app_name" validate:"required"`
}

type logLevel string

const (
	Debug logLevel = "debug"
	Info  logLevel = "info"
	Warn  logLevel = "warn"
	Error logLevel = "error"
	Fatal logLevel = "fatal"
	Panic logLevel = "panic"
)

type Module string

const (
	ModuleAsk       Module = "ask"
	ModuleRetrieve  Module = "retrieve"
	ModuleExtract   Module = "extract"
	ModuleHealth    Module = "health"
	ModuleOpenAI    Module = "openai"
	ModuleS3        Module = "s3"
	ModuleCors      Module = "cors"
	ModuleLimiter   Module = "limiter"
	ModuleServer    Module = "server"
	ModuleSetting   Module = "setting"
	ModuleDocument  Module = "document"
	ModuleRetriever Module = "retriever"
)

type openaiConfig struct {
	Model          string  `koanf:"model" validate:"required"`
	EmbeddingModel string  `koanf:"embedding_model" validate:"required"`
	MaxTokens      int     `koanf:"max_tokens" validate:"required"`
	Temperature    float64 `koanf:"temperature"`
}

type retrievalConfig struct {
	ChunkSize        int     `koanf:"chunk_size" validate:"required"`
	ChunkOverlap     int     `koanf:"chunk_overlap"`
	TopK             int     `koanf:"top_k" validate:"required"`
	BoundaryFraction float64 `koanf:"boundary_fraction"`
}

type limiterConfig struct {
	RequestsPerWindow int `koanf:"requests_per_window" validate:"required"`
	WindowSeconds     int `koanf:"window_seconds" validate:"required"`
	MaxConnections    int `koanf:"max_connections" validate:"required"`
}

type corsConfig struct {
	AllowOrigins []string `koanf:"allow_origins" validate:"required"`
	AllowMethods []string `koanf:"allow_methods" validate:"required"`
	AllowHeaders []string `koanf:"allow_headers" validate:"required"`
}

type s3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
	Bucket    string `koanf:"bucket"`
}

type config struct {
	Server    serverConfig    `koanf:"server"`
	OpenAI    openaiConfig    `koanf:"openai"`
	Retrieval retrievalConfig `koanf:"retrieval"`
	Limiter   limiterConfig   `koanf:"limiter"`
	Cors      corsConfig      `koanf:"cors"`
	S3        s3Config        `koanf:"s3"`
	LogLevel  logLevel        `koanf:"log_level"`
}

var defaultConfig = config{
	Server: serverConfig{
		Port:        8000,
		Mode:        "release",
		Concurrency: 256,
		BodyLimit:   10 * 1024 * 1024,
		AppName:     "ai-knowledge-hub",
	},
	OpenAI: openaiConfig{
		Model:          "gpt-3.5-turbo",
		EmbeddingModel: "text-embedding-ada-002",
		MaxTokens:      500,
		Temperature:    0.7,
	},
	Retrieval: retrievalConfig{
		ChunkSize:        500,
		ChunkOverlap:     50,
		TopK:             3,
		BoundaryFraction: 0.5,
	},
	Limiter: limiterConfig{
		RequestsPerWindow: 60,
		WindowSeconds:     60,
		MaxConnections:    128,
	},
	Cors: corsConfig{
		AllowOrigins: []string{"http://localhost:3000"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-API-Key", "X-Request-ID"},
	},
	S3: s3Config{
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Region:    "us-east-1",
		UseSSL:    false,
		Bucket:    "documents",
	},
	LogLevel: Info,
}

var (
	Cfg  = defaultConfig
	once sync.Once
)

// Init loads configuration from the given yaml file (if present) and from
// APP_-prefixed environment variables, e.g. APP_SERVER_PORT or
// APP_RETRIEVAL_CHUNK_SIZE. Only the first call loads.
func Init(path string) {
	once.Do(func() { load(path) })
}

// Top-level sections of the config tree. Env keys split on the section name
// so multi-word leaf keys like chunk_size keep their underscore.
var envSections = []string{"server", "openai", "retrieval", "limiter", "cors", "s3"}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "APP_"))
	for _, sec := range envSections {
		if strings.HasPrefix(key, sec+"_") {
			return sec + "." + key[len(sec)+1:]
		}
	}
	// top-level keys such as log_level
	return key
}

func load(path string) {
	k := koanf.New(".")

	validate := validator.New()
	// defaults
	Cfg = defaultConfig

	// file
	if e := k.Load(file.Provider(path), yaml.Parser()); e != nil && !errors.Is(e, os.ErrNotExist) {
		return
	}

	// env APP_SERVER_PORT -> server.port
	if e := k.Load(env.Provider("APP_", ".", envKey), nil); e != nil {
		return
	}

	// bind
	if e := k.Unmarshal("", &Cfg); e != nil {
		log.Errorf("failed to unmarshal config: %v", e)
	}

	// validate config
	if err := validate.Struct(Cfg); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("%v Config validation failed:\n", ModuleSetting))

			for _, e := range errs {
				sb.WriteString(
					fmt.Sprintf("  - %s: failed '%s' (value: %v)\n", e.Field(), e.Tag(), e.Value()),
				)
			}

			log.Error(sb.String())
		} else {
			log.Errorf("config validation failed: %v", err)
		}
	}
}
