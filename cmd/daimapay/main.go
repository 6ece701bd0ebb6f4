package main

import (
	// Go Internal Packages
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	// Local Packages
	paymentapi "daimapay/clients/paymentapi"
	config "daimapay/config"
	helpers "daimapay/helpers"
	kafka "daimapay/kafka"
	metrics "daimapay/metrics"
	models "daimapay/models"
	memory "daimapay/repositories/memory"
	mongodb "daimapay/repositories/mongodb"
	redis "daimapay/repositories/redis"
	server "daimapay/server"
	history "daimapay/services/history"
	payments "daimapay/services/payments"
	reconciler "daimapay/services/reconciler"

	// External Packages
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	_ "github.com/jsternberg/zap-logfmt"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"go.uber.org/zap"
)

var (
	app        = kingpin.New("daimapay", "DaimaPay airtime top-up server")
	configPath = app.Flag("config", "Path to the application config file").Short('c').Default("config.yml").String()

	serveCmd     = app.Command("serve", "Serve the pages and API and reconcile pending transactions").Default()
	reconcileCmd = app.Command("reconcile", "Run a single reconciliation pass and exit")
	historyCmd   = app.Command("history", "Print the local transaction history")
	historyJSON  = historyCmd.Flag("json", "Print the history as JSON").Bool()
)

// LoadSecrets Loads the secret variables and overrides the config
func LoadSecrets(k config.Config) config.Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		k.Server.Address = ":" + port
	}
	if apiURL := os.Getenv("PAYMENT_API_URL"); apiURL != "" {
		k.API.BaseURL = apiURL
	}
	if mongoURI := os.Getenv("MONGO_URI"); mongoURI != "" {
		k.Mongo.URI = mongoURI
	}
	if redisURI := os.Getenv("REDIS_URI"); redisURI != "" {
		k.Redis.URI = redisURI
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		k.Redis.Password = redisPassword
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		k.Kafka.Brokers = strings.Split(brokers, ",")
	}
	if isProdMode := os.Getenv("IS_PROD_MODE"); isProdMode != "" {
		k.IsProdMode = isProdMode == "true"
	}
	return k
}

// LoadConfig loads the default configuration and overrides it with the config file
// specified by the path defined in the config flag
func LoadConfig(path string) *koanf.Koanf {
	k := koanf.New(".")
	_ = k.Load(rawbytes.Provider(config.DefaultConfig), yaml.Parser())
	if path != "" {
		_ = k.Load(file.Provider(path), yaml.Parser())
	}
	return k
}

func newLogger(level, service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "logfmt"
	_ = cfg.Level.UnmarshalText([]byte(level))
	cfg.InitialFields = make(map[string]any)
	cfg.InitialFields["host"], _ = os.Hostname()
	cfg.InitialFields["service"] = service
	cfg.OutputPaths = []string{"stdout"}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	return logger
}

// openStore connects the configured transaction store and brings its schema
// up to date. The returned func releases the connection.
func openStore(ctx context.Context, conf config.Config, logger *zap.Logger) (models.TransactionStore, func(), error) {
	switch conf.Store.Driver {
	case config.StoreRedis:
		client, err := redis.Connect(ctx, conf.Redis.URI, conf.Redis.Password)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create redis client: %w", err)
		}
		repo := redis.NewTxRepository(client, logger)
		if err := repo.Migrate(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return repo, func() { _ = client.Close() }, nil

	case config.StoreMemory:
		logger.Warn("using in-memory transaction store, history is lost on restart")
		return memory.NewTxRepository(), func() {}, nil

	default:
		client, err := mongodb.Connect(ctx, conf.Mongo.URI)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot create mongo client: %w", err)
		}
		repo := mongodb.NewTxRepository(client, conf.Mongo.Database, logger)
		if err := repo.Migrate(ctx); err != nil {
			_ = mongodb.Disconnect(client)
			return nil, nil, err
		}
		return repo, func() { _ = mongodb.Disconnect(client) }, nil
	}
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	k := LoadConfig(*configPath)
	appKonf := config.Config{}

	// Unmarshalling config into struct
	err := k.Unmarshal("", &appKonf)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Update and Validate config before starting the server
	appKonf = LoadSecrets(appKonf)
	if err = appKonf.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if !appKonf.IsProdMode && command == serveCmd.FullCommand() {
		k.Print()
	}

	logger := newLogger(appKonf.Logger.Level, appKonf.Application)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, appKonf, logger)
	if err != nil {
		logger.Fatal("cannot open transaction store", zap.Error(err))
	}
	defer closeStore()

	api := paymentapi.NewClient(appKonf.API.BaseURL, appKonf.API.Timeout)
	txReconciler := reconciler.NewReconciler(logger, api, store, reconciler.Config{
		Interval:       appKonf.Reconciler.Interval,
		RequestTimeout: appKonf.Reconciler.RequestTimeout,
		Concurrency:    appKonf.Reconciler.Concurrency,
	})
	renderer := history.NewRenderer(logger, store, time.Local)

	switch command {
	case reconcileCmd.FullCommand():
		helpers.PrintStruct(txReconciler.RunOnce(ctx))

	case historyCmd.FullCommand():
		h, err := renderer.Render(ctx)
		if err != nil {
			logger.Fatal("cannot load transaction history", zap.Error(err))
		}
		printHistory(h, *historyJSON)

	case serveCmd.FullCommand():
		serve(ctx, appKonf, logger, store, api, txReconciler, renderer)
	}
}

func serve(ctx context.Context, conf config.Config, logger *zap.Logger, store models.TransactionStore,
	api *paymentapi.Client, txReconciler *reconciler.Reconciler, renderer *history.Renderer) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	appMetrics := metrics.New("daimapay")
	txReconciler.Metrics = appMetrics

	if conf.Kafka.Publish {
		producer, err := kafka.NewStatusProducer(&models.ProducerConfig{
			Brokers: conf.Kafka.Brokers,
			Topic:   conf.Kafka.Topic,
			Name:    conf.Kafka.ClientName,
		}, appMetrics.Kafka, logger)
		if err != nil {
			logger.Fatal("cannot create status producer", zap.Error(err))
		}
		defer producer.Close(context.Background())
		txReconciler.Publisher = producer
	}

	initiator := payments.NewInitiator(logger, api, store, conf.Payments.MinAmount)

	opts := server.Options{
		Address:      conf.Server.Address,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
		Manifest:     server.Manifest{CacheName: conf.Cache.Name, Assets: conf.Cache.Assets},
		Metrics:      appMetrics,
	}
	if conf.Server.PublicDir != "" {
		opts.Files = os.DirFS(conf.Server.PublicDir)
	}
	srv := server.New(logger, initiator, renderer, opts)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		txReconciler.Start(ctx)
	}()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
	cancel()
	wg.Wait()
}

func printHistory(h history.History, asJSON bool) {
	if asJSON {
		helpers.PrintStruct(h)
		return
	}
	if h.Empty {
		fmt.Println(h.Message)
		return
	}
	for _, item := range h.Items {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", item.Time, item.ReferenceID, item.To, item.Amount, item.Status)
	}
}
