package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// ErrMissingMongoURI is returned when neither MONGO_URI nor DB_USER/DB_PASS are set.
var ErrMissingMongoURI = errors.New("missing MONGO_URI or DB_USER/DB_PASS")

type Config struct {
	AppName string `env:"APP_NAME" envDefault:"toy-catalog" validate:"required"`
	AppPort string `env:"PORT" envDefault:"5000" validate:"required,numeric"`
	Env     string `env:"ENV" envDefault:"development"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	MongoURI        string `env:"MONGO_URI"`
	MongoUser       string `env:"DB_USER"`
	MongoPassword   string `env:"DB_PASS"`
	MongoHost       string `env:"MONGO_HOST" envDefault:"cluster0.xevudqv.mongodb.net" validate:"required"`
	MongoDBName     string `env:"MONGO_DB_NAME" envDefault:"eduToysDB" validate:"required"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"products" validate:"required"`

	TokenSecret string `env:"ACCESS_TOKEN_SECRET" validate:"required"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CORSOrigin     string        `env:"CORS_ORIGIN" envDefault:"*"`

	GRPCHealthPort string        `env:"GRPC_HEALTH_PORT" validate:"omitempty,numeric"`
	HealthInterval time.Duration `env:"HEALTH_INTERVAL" envDefault:"10s" validate:"gt=0"`

	RemoteLogHttpURI       string `env:"REMOTE_LOG_HTTP_URI" validate:"omitempty,url"`
	RemoteTraceRpcURI      string `env:"REMOTE_TRACE_RPC_URI"`
	RemoteProfilingHttpURI string `env:"REMOTE_PROFILING_HTTP_URI" validate:"omitempty,url"`
}

// SafeConfig is the loggable view of Config (no credentials).
type SafeConfig struct {
	AppName                string `json:"app_name"`
	AppPort                string `json:"app_port"`
	Env                    string `json:"env"`
	LogLevel               string `json:"log_level"`
	MongoHost              string `json:"mongo_host"`
	MongoDBName            string `json:"mongo_db_name"`
	MongoCollection        string `json:"mongo_collection"`
	RequestTimeout         string `json:"request_timeout"`
	CORSOrigin             string `json:"cors_origin"`
	GRPCHealthPort         string `json:"grpc_health_port"`
	RemoteLogHttpURI       string `json:"remote_log_http_uri"`
	RemoteTraceRpcURI      string `json:"remote_trace_rpc_uri"`
	RemoteProfilingHttpURI string `json:"remote_profiling_http_uri"`
}

func (c *Config) ToSafeConfig() SafeConfig {
	return SafeConfig{
		AppName:                c.AppName,
		AppPort:                c.AppPort,
		Env:                    c.Env,
		LogLevel:               c.LogLevel,
		MongoHost:              c.mongoHostForLog(),
		MongoDBName:            c.MongoDBName,
		MongoCollection:        c.MongoCollection,
		RequestTimeout:         c.RequestTimeout.String(),
		CORSOrigin:             c.CORSOrigin,
		GRPCHealthPort:         c.GRPCHealthPort,
		RemoteLogHttpURI:       c.RemoteLogHttpURI,
		RemoteTraceRpcURI:      c.RemoteTraceRpcURI,
		RemoteProfilingHttpURI: c.RemoteProfilingHttpURI,
	}
}

func (c *Config) mongoHostForLog() string {
	u, err := url.Parse(c.MongoURI)
	if err != nil || u.Host == "" {
		return c.MongoHost
	}
	return u.Host
}

// Load reads an optional .env file, parses the environment and validates the result.
// Warnings about optional settings go to log.
func Load(log *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	if err := cfg.resolveMongoURI(); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.RemoteLogHttpURI == "" {
		log.Warn("Missing REMOTE_LOG_HTTP_URI will skip sending log")
	}
	if cfg.RemoteTraceRpcURI == "" {
		log.Warn("Missing REMOTE_TRACE_RPC_URI will print traces to stdout")
	}
	if cfg.RemoteProfilingHttpURI == "" {
		log.Warn("Missing REMOTE_PROFILING_HTTP_URI will skip profiling")
	}

	attrs := StructAttrs("data", cfg.ToSafeConfig())
	anyAttrs := make([]any, len(attrs))
	for i, a := range attrs {
		anyAttrs[i] = a
	}
	log.Info("Configuration loaded successfully", anyAttrs...)

	return cfg, nil
}

// resolveMongoURI builds an Atlas SRV URI from DB_USER/DB_PASS when MONGO_URI is unset.
func (c *Config) resolveMongoURI() error {
	if c.MongoURI != "" {
		return nil
	}
	if c.MongoUser == "" || c.MongoPassword == "" {
		return ErrMissingMongoURI
	}
	u := url.URL{
		Scheme:   "mongodb+srv",
		User:     url.UserPassword(c.MongoUser, c.MongoPassword),
		Host:     c.MongoHost,
		Path:     "/",
		RawQuery: "retryWrites=true&w=majority",
	}
	c.MongoURI = u.String()
	return nil
}

func toSnake(s string) string {
	var out strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 && s[i-1] != '_' {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// StructAttrs("data", cfg) ➜ []slog.Attr{ slog.String("data.app_port", "5000"), ... }
func StructAttrs(prefix string, s any) []slog.Attr {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	t := v.Type()

	attrs := make([]slog.Attr, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		key := prefix + "." + jsonKey(f)

		switch v.Field(i).Kind() {
		case reflect.String:
			attrs = append(attrs, slog.String(key, v.Field(i).String()))
		case reflect.Int, reflect.Int64, reflect.Int32:
			attrs = append(attrs, slog.Int64(key, v.Field(i).Int()))
		default:
			attrs = append(attrs, slog.Any(key, v.Field(i).Interface()))
		}
	}
	return attrs
}

func jsonKey(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		return strings.Split(tag, ",")[0]
	}
	return toSnake(f.Name)
}
