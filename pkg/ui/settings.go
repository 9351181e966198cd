// Package ui serves the settings page on localhost, in place of a native
// settings window, and implements the hide/restore contract the session
// expects from one.
package ui

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alswo471/screensaver/pkg/config"
)

//go:embed settings.html
var content embed.FS

// SessionInfo is the read-only slice of the session the page reports on.
type SessionInfo interface {
	IsActive() bool
	BackgroundOnly() bool
}

// Server hosts the settings page and the config API.
type Server struct {
	store   *config.Store
	session SessionInfo
	addr    string

	httpServer *http.Server

	mu      sync.Mutex
	visible bool
}

// NewServer creates a settings server bound to localhost. The session may
// be attached later with SetSession, before Start.
func NewServer(store *config.Store, session SessionInfo, port int) *Server {
	return &Server{
		store:   store,
		session: session,
		addr:    fmt.Sprintf("127.0.0.1:%d", port),
	}
}

// SetSession attaches the session the status endpoint reports on.
func (s *Server) SetSession(session SessionInfo) {
	s.session = session
}

// Start begins serving in the background.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/save", s.handleSave)
	mux.HandleFunc("/api/status", s.handleStatus)

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.addr = listener.Addr().String()
	s.httpServer = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("settings server stopped")
		}
	}()
	log.WithField("url", s.URL()).Info("settings page available")
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(ctx)
}

// URL returns the settings page address.
func (s *Server) URL() string {
	return "http://" + s.addr
}

// Open launches the page in the default browser and marks it visible.
func (s *Server) Open() {
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
	openBrowser(s.URL())
}

// Hide implements the SettingsWindow contract: the page is considered
// out of the way (the session calls this when activating).
func (s *Server) Hide() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
}

// Restore re-opens the page only when it is not already visible. Idempotent
// and never force-raises.
func (s *Server) Restore() {
	s.mu.Lock()
	if s.visible {
		s.mu.Unlock()
		return
	}
	s.visible = true
	s.mu.Unlock()
	openBrowser(s.URL())
}

// Visible reports whether the page is considered open.
func (s *Server) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := content.ReadFile("settings.html")
	if err != nil {
		http.Error(w, "settings page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.store.Get())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cfg := s.store.Get()
	if err := json.NewDecoder(r.Body).Decode(cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.store.Set(cfg)

	if err := s.store.Get().Save(); err != nil {
		log.WithError(err).Error("failed to persist configuration")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := map[string]bool{}
	if s.session != nil {
		status["active"] = s.session.IsActive()
		status["background_only"] = s.session.BackgroundOnly()
	}
	_ = json.NewEncoder(w).Encode(status)
}

// openBrowser is a variable so tests can stub the launch.
var openBrowser = launchBrowser

func launchBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.WithError(err).WithField("url", url).Warn("could not open browser")
	}
}
