package server

import (
	// Go Internal Packages
	"context"
	"embed"
	"io/fs"
	"net/http"
	"time"

	// Local Packages
	metrics "daimapay/metrics"
	models "daimapay/models"
	history "daimapay/services/history"
	payments "daimapay/services/payments"

	// External Packages
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

//go:embed public
var embedded embed.FS

// PublicFS returns the pages and assets shipped with the binary
func PublicFS() fs.FS {
	sub, err := fs.Sub(embedded, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

type TopupInitiator interface {
	Initiate(ctx context.Context, in payments.TopupRequest) (*models.TransactionRecord, error)
}

type HistoryRenderer interface {
	Render(ctx context.Context) (history.History, error)
}

// Manifest is the offline cache manifest handed to the service worker
type Manifest struct {
	CacheName string   `json:"cacheName"`
	Assets    []string `json:"assets"`
}

type Options struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Files        fs.FS
	Manifest     Manifest
	Metrics      *metrics.Metrics
}

type Server struct {
	logger    *zap.Logger
	initiator TopupInitiator
	history   HistoryRenderer
	files     fs.FS
	manifest  Manifest
	metrics   *metrics.Metrics
	router    *mux.Router
	http      *http.Server
}

func New(logger *zap.Logger, initiator TopupInitiator, renderer HistoryRenderer, opts Options) *Server {
	if opts.Files == nil {
		opts.Files = PublicFS()
	}

	s := &Server{
		logger:    logger,
		initiator: initiator,
		history:   renderer,
		files:     opts.Files,
		manifest:  opts.Manifest,
		metrics:   opts.Metrics,
		router:    mux.NewRouter(),
	}

	r := s.router
	r.Use(s.requestLogger)

	// Pages
	r.HandleFunc("/", s.page("index.html")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/help", s.page("help.html")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/wallet", s.page("wallet.html")).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet, http.MethodHead)

	// Offline cache
	r.HandleFunc("/service-worker.js", s.serviceWorker).Methods(http.MethodGet)
	r.HandleFunc("/cache-manifest.json", s.cacheManifest).Methods(http.MethodGet)

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/topup", s.topup).Methods(http.MethodPost)
	api.HandleFunc("/transactions", s.transactions).Methods(http.MethodGet)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	}

	// Static assets, favicon included
	r.PathPrefix("/").HandlerFunc(s.static).Methods(http.MethodGet, http.MethodHead)
	r.NotFoundHandler = s.requestLogger(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = s.requestLogger(http.HandlerFunc(notFound))

	s.http = &http.Server{
		Addr:         opts.Address,
		Handler:      r,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("DaimaPay server running", zap.String("address", s.http.Addr))
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
