package config

import (
	// Go Internal Packages
	"net/url"
	"time"

	// Local Packages
	errors "daimapay/errors"
)

var DefaultConfig = []byte(`
application: "daimapay"

logger:
  level: "debug"

is_prod_mode: false

server:
  address: ":3000"
  public_dir: ""
  read_timeout: "10s"
  write_timeout: "10s"

api:
  base_url: "https://daimapayserver.onrender.com"
  timeout: "15s"

payments:
  min_amount: 10

reconciler:
  interval: "10s"
  request_timeout: "10s"
  concurrency: 4

store:
  driver: "mongo"

mongo:
  uri: "mongodb://localhost:27017"
  database: "daimapay"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  brokers:
    - "localhost:9092"
  publish: false
  topic: "transaction-status"
  client_name: "daimapay"

cache:
  name: "Daima-Pay-v1"
  assets:
    - "/"
    - "/index.html"
    - "/style.css"
    - "/script.js"
    - "/airtel.png"
    - "/ca-logo.png"
    - "/cbk-logo.png"
    - "/email.png"
    - "/help.html"
    - "/help.js"
    - "/loc.png"
    - "/phone.png"
    - "/psp.png"
    - "/saf.png"
    - "/step1.png"
    - "/step2.png"
    - "/step3.png"
    - "/telkom.jpg"
    - "/wall.css"
    - "/wallet.html"
    - "/wap.png"
    - "/icons/icon-192.png"
    - "/icons/icon-512.png"
`)

const (
	StoreMongo  = "mongo"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	Application string     `koanf:"application"`
	Logger      Logger     `koanf:"logger"`
	IsProdMode  bool       `koanf:"is_prod_mode"`
	Server      Server     `koanf:"server"`
	API         API        `koanf:"api"`
	Payments    Payments   `koanf:"payments"`
	Reconciler  Reconciler `koanf:"reconciler"`
	Store       Store      `koanf:"store"`
	Mongo       Mongo      `koanf:"mongo"`
	Redis       Redis      `koanf:"redis"`
	Kafka       Kafka      `koanf:"kafka"`
	Cache       Cache      `koanf:"cache"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Address      string        `koanf:"address"`
	PublicDir    string        `koanf:"public_dir"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

type API struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type Payments struct {
	MinAmount float64 `koanf:"min_amount"`
}

type Reconciler struct {
	Interval       time.Duration `koanf:"interval"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	Concurrency    int           `koanf:"concurrency"`
}

type Store struct {
	Driver string `koanf:"driver"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Brokers    []string `koanf:"brokers"`
	Publish    bool     `koanf:"publish"`
	Topic      string   `koanf:"topic"`
	ClientName string   `koanf:"client_name"`
}

type Cache struct {
	Name   string   `koanf:"name"`
	Assets []string `koanf:"assets"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Server.Address == "" {
		ve.Add("server.address", "cannot be empty")
	}
	if c.API.BaseURL == "" {
		ve.Add("api.base_url", "cannot be empty")
	} else if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		ve.Add("api.base_url", "must be an absolute url")
	}
	if c.API.Timeout <= 0 {
		ve.Add("api.timeout", "must be positive")
	}
	if c.Payments.MinAmount <= 0 {
		ve.Add("payments.min_amount", "must be positive")
	}
	if c.Reconciler.Interval <= 0 {
		ve.Add("reconciler.interval", "must be positive")
	}
	if c.Reconciler.Concurrency <= 0 {
		ve.Add("reconciler.concurrency", "must be positive")
	}

	switch c.Store.Driver {
	case StoreMongo:
		if c.Mongo.URI == "" {
			ve.Add("mongo.uri", "cannot be empty")
		}
		if c.Mongo.Database == "" {
			ve.Add("mongo.database", "cannot be empty")
		}
	case StoreRedis:
		if c.Redis.URI == "" {
			ve.Add("redis.uri", "cannot be empty")
		}
	case StoreMemory:
	default:
		ve.Add("store.driver", "must be one of mongo, redis, memory")
	}

	if c.Kafka.Publish {
		if len(c.Kafka.Brokers) == 0 {
			ve.Add("kafka.brokers", "cannot be empty")
		}
		if c.Kafka.Topic == "" {
			ve.Add("kafka.topic", "cannot be empty")
		}
	}
	if c.Cache.Name == "" {
		ve.Add("cache.name", "cannot be empty")
	}

	return ve.Err()
}
