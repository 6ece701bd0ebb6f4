package server

import (
	// Go Internal Packages
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"text/template"

	// Local Packages
	errors "daimapay/errors"
	models "daimapay/models"
	payments "daimapay/services/payments"

	// External Packages
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Notification is what the page shows after an API call. Type is one of
// success, error or warning.
type Notification struct {
	Type        string                    `json:"type"`
	Message     string                    `json:"message"`
	Kind        string                    `json:"kind,omitempty"`
	Fields      map[string]string         `json:"fields,omitempty"`
	Saved       *bool                     `json:"saved,omitempty"`
	Transaction *models.TransactionRecord `json:"transaction,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "404 - Not Found")
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "DaimaPay server is running.",
	})
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.serveFile(w, r, name)
	}
}

func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		notFound(w, r)
		return
	}
	s.serveFile(w, r, name)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := s.files.Open(name)
	if err != nil {
		notFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		notFound(w, r)
		return
	}
	content, ok := f.(io.ReadSeeker)
	if !ok {
		s.logger.Error("static file is not seekable", zap.String("file", name))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
		w.Header().Set("Content-Type", ctype)
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
}

var serviceWorkerTmpl = template.Must(template.New("sw").Parse(`const CACHE_NAME = {{.CacheName}};
const urlsToCache = {{.Assets}};

self.addEventListener("install", event => {
  event.waitUntil(
    caches.open(CACHE_NAME).then(cache =>
      Promise.allSettled(urlsToCache.map(url => cache.add(url)))
    )
  );
});

self.addEventListener("fetch", event => {
  event.respondWith(
    caches.match(event.request).then(response => response || fetch(event.request))
  );
});

self.addEventListener("activate", event => {
  event.waitUntil(
    caches.keys().then(names =>
      Promise.all(names.filter(name => name !== CACHE_NAME).map(name => caches.delete(name)))
    )
  );
});
`))

func (s *Server) serviceWorker(w http.ResponseWriter, _ *http.Request) {
	name, _ := json.Marshal(s.manifest.CacheName)
	assets, _ := json.Marshal(s.assets())

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	err := serviceWorkerTmpl.Execute(w, map[string]string{
		"CacheName": string(name),
		"Assets":    string(assets),
	})
	if err != nil {
		s.logger.Error("failed to render service worker", zap.Error(err))
	}
}

func (s *Server) cacheManifest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Manifest{CacheName: s.manifest.CacheName, Assets: s.assets()})
}

func (s *Server) assets() []string {
	if s.manifest.Assets == nil {
		return []string{}
	}
	return s.manifest.Assets
}

// topup accepts either JSON or the HTML form encoding
func (s *Server) topup(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTopup(w, r)
	if err != nil {
		s.notify(w, r, errors.InvalidBodyErr(err), nil)
		return
	}

	rec, err := s.initiator.Initiate(r.Context(), in)
	if err != nil {
		s.metrics.ObservePayment(errors.KindOf(err).String())
		s.notify(w, r, err, rec)
		return
	}
	s.metrics.ObservePayment("initiated")

	saved := true
	writeJSON(w, http.StatusCreated, Notification{
		Type:        "success",
		Message:     "Payment initiated! Check your M-Pesa.",
		Saved:       &saved,
		Transaction: rec,
	})
}

func decodeTopup(w http.ResponseWriter, r *http.Request) (payments.TopupRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ctype, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ctype == "application/x-www-form-urlencoded" || ctype == "multipart/form-data" {
		parse := r.ParseForm
		if ctype == "multipart/form-data" {
			parse = func() error { return r.ParseMultipartForm(maxBodyBytes) }
		}
		if err := parse(); err != nil {
			return payments.TopupRequest{}, err
		}
		return payments.TopupRequest{
			RecipientNumber: firstOf(r.PostForm.Get("recipientNumber"), r.PostForm.Get("phone")),
			Amount:          r.PostForm.Get("amount"),
			PayerNumber:     firstOf(r.PostForm.Get("payerNumber"), r.PostForm.Get("phone2")),
		}, nil
	}

	var in payments.TopupRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return payments.TopupRequest{}, err
	}
	return in, nil
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// notify turns an error into a non-fatal notification for the page
func (s *Server) notify(w http.ResponseWriter, r *http.Request, err error, rec *models.TransactionRecord) {
	kind := errors.KindOf(err)
	n := Notification{Type: "error", Message: errors.MessageOf(err), Kind: kind.String()}

	status := http.StatusInternalServerError
	switch kind {
	case errors.Invalid:
		status = http.StatusBadRequest
		n.Type = "warning"
		n.Fields = errors.FieldErrors(err)
		if n.Fields != nil {
			n.Message = "Fill all fields correctly!"
		}
	case errors.Network:
		status = http.StatusServiceUnavailable
		n.Message = "Network error. Please try again."
	case errors.Server:
		status = http.StatusBadGateway
	case errors.Storage:
		// the payment went through, only the local copy is missing
		status = http.StatusAccepted
		saved := false
		n.Type = "warning"
		n.Message = "Payment initiated, but it could not be saved to your history."
		n.Saved = &saved
		n.Transaction = rec
	default:
		n.Message = "Something went wrong. Try again."
	}

	s.logger.Warn("request failed",
		zap.String("path", r.URL.Path),
		zap.String("kind", kind.String()),
		zap.Error(err))
	writeJSON(w, status, n)
}

func (s *Server) transactions(w http.ResponseWriter, r *http.Request) {
	h, err := s.history.Render(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, Notification{
			Type:    "error",
			Message: "Could not load your local transactions.",
			Kind:    errors.KindOf(err).String(),
		})
		return
	}
	writeJSON(w, http.StatusOK, h)
}
