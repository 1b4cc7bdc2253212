// Package server tracks the live sessions of a multi-connection front-end
// and broadcasts server-wide events to them. Sessions never share game state.
package server

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Registry is the interface sessions use to register with the server.
type Registry interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
}

// Server keeps a handle for every connected session.
type Server struct {
	mu           sync.RWMutex
	clients      map[int]*ClientHandle
	nextClientID int
	logger       *log.Logger
}

// Compile-time check that Server implements Registry.
var _ Registry = (*Server)(nil)

// ClientHandle represents a session's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	Joined   time.Time        // Registration time
	EventsCh chan ClientEvent // Events sent to the session (shutdown, etc.)
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

// NewServer creates an empty server. A nil logger discards log output.
func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		logger:       logger,
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: username,
		Joined:   time.Now(),
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle

	s.logger.Info("client registered", "id", handle.ID, "user", username, "active", len(s.clients))
	return handle
}

// UnregisterClient removes a client. Unknown IDs are ignored.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	delete(s.clients, clientID)

	s.logger.Info("client unregistered",
		"id", clientID,
		"user", handle.Username,
		"duration", time.Since(handle.Joined).Round(time.Second),
		"active", len(s.clients),
	)
}

// ActiveClients returns the number of registered clients.
func (s *Server) ActiveClients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// It reports whether every client left before the timeout.
func (s *Server) Shutdown(timeout time.Duration) bool {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.ActiveClients() == 0 {
			return true
		}
		select {
		case <-deadline:
			s.logger.Warn("shutdown timed out", "remaining", s.ActiveClients())
			return false
		case <-ticker.C:
		}
	}
}
