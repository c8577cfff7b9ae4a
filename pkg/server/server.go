package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"walletwatch/pkg/view"
	"walletwatch/pkg/watcher"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Crypto Wallet Watcher</title>
    <style>
        h1 {
            border-bottom: 1px solid #ccc;
            padding-bottom: 0.25em;
        }
        h2 {
            display: flex;
            align-items: center;
            margin-bottom: 0.5em;
        }
        h2 img {
            width: 32px;
            height: 32px;
            margin-right: 0.35em;
        }
        .container {
            width: 800px;
            margin: 0 auto;
        }
        .row {
            margin: 1.5em 0;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>Wallet Status</h1>
        {{- range . }}
        <div class="row">
            <h2>{{ if .IconURL }}<img src="{{ .IconURL }}" alt="{{ .Name }}">{{ end }}{{ .Name }}</h2>
            {{- range .Addresses }}
            Address: <a href="{{ .LinkURL }}">{{ .Address }}</a><br>
            Balance: {{ .Balance }}<br>
            Last Active On: {{ .LastActive }}<br>
            Time Since Last Activity: {{ .Elapsed }}<br>
            {{- end }}
        </div>
        {{- end }}
    </div>
</body>
</html>
`

type Server struct {
	watcher *watcher.Watcher
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
	mux     *http.ServeMux
	tmpl    *template.Template
}

func NewServer(w *watcher.Watcher) *Server {
	s := &Server{
		watcher: w,
		clients: make(map[*websocket.Conn]bool),
		mux:     http.NewServeMux(),
		tmpl:    template.Must(template.New("status").Parse(pageTemplate)),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.Handle("/metrics", promhttp.Handler())
	s.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func (s *Server) Start(addr string) error {
	go s.listenToWatcher()

	fmt.Printf("Serving wallet status on %s\n", addr)
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.mux,
		IdleTimeout: 60 * time.Second,
	}
	return srv.ListenAndServe()
}

// handleIndex refreshes stale state and renders the status page. The
// page always comes back complete; addresses whose fetches failed keep
// their previous values or placeholders.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.watcher.MaybeRefresh(r.Context())
	rows := view.Render(s.watcher.Snapshot(), time.Now())

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, rows); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.watcher.MaybeRefresh(r.Context())
	data := map[string]interface{}{
		"coins": view.Render(s.watcher.Snapshot(), time.Now()),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Send initial state
	initialData := map[string]interface{}{
		"type": "initial",
		"data": map[string]interface{}{
			"coins": view.Render(s.watcher.Snapshot(), time.Now()),
		},
	}
	_ = conn.WriteJSON(initialData)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToWatcher() {
	sub := s.watcher.Subscribe()
	defer s.watcher.Unsubscribe(sub)

	for event := range sub {
		s.broadcast(event)
	}
}

func (s *Server) broadcast(event watcher.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
