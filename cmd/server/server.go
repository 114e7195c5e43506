package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/snapquery/snapquery/console"
	"github.com/snapquery/snapquery/query"
)

// Server is a TCP front end exposing one snapquery console. The
// console itself serializes query execution; overlapping requests from
// different connections surface as busy failures in the error field.
type Server struct {
	listener   net.Listener
	console    *console.Console
	authConfig *AuthConfig
	done       chan struct{}
	wg         sync.WaitGroup

	// connMu guards the accepted-connection set; Stop closes every
	// live connection so idle clients cannot hang the shutdown.
	connMu sync.Mutex
	conns  map[net.Conn]struct{}

	// execMu serializes the set-text/execute/status triple so one
	// connection's request can never observe another's text or timing.
	execMu sync.Mutex
}

// NewServer creates a server over console. authConfig may be nil to
// disable authentication.
func NewServer(c *console.Console, authConfig *AuthConfig) *Server {
	return &Server{
		console:    c,
		authConfig: authConfig,
		done:       make(chan struct{}),
		conns:      make(map[net.Conn]struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("Query server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// Stop gracefully shuts down the server. Live connections are closed;
// blocked reads unblock and their handlers drain before Stop returns.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
	s.connMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connMu.Unlock()
	s.wg.Wait()
	return nil
}

// Addr returns the server's listening address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				log.Printf("Accept error: %v", err)
				continue
			}
		}

		s.connMu.Lock()
		s.conns[conn] = struct{}{}
		s.connMu.Unlock()

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer func() {
		s.connMu.Lock()
		delete(s.conns, conn)
		s.connMu.Unlock()
		conn.Close()
	}()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	reader := bufio.NewReader(conn)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		// Read until newline (one query per line)
		line, err := reader.ReadString('\n')
		if err != nil {
			select {
			case <-s.done:
			default:
				if err != io.EOF {
					log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
				}
			}
			return
		}

		request := strings.TrimSpace(line)
		if request == "" {
			continue
		}

		if lower := strings.ToLower(request); lower == "quit" || lower == "exit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(request), "AUTH "):
			response = s.handleAuth(request, state)
		case s.authRequired(state):
			response = Response{
				Success: false,
				Type:    "auth",
				Error:   "authentication required: send AUTH JWT <token>",
			}
		default:
			response = s.executeQuery(request)
		}

		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		if _, err := conn.Write(data); err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

func (s *Server) authRequired(state *ConnectionState) bool {
	return s.authConfig != nil && s.authConfig.Enabled && !state.IsAuthenticated()
}

func (s *Server) executeQuery(text string) Response {
	// One console serves every connection; hold execMu across the
	// set-text/execute/status sequence so a concurrent connection
	// cannot swap the text under this request or read its timing.
	s.execMu.Lock()
	s.console.SetQueryText(text)
	result := s.console.Execute(context.Background())
	status := s.console.Status()
	s.execMu.Unlock()
	timeMs := 0.0
	if status.ElapsedSeconds != nil {
		timeMs = *status.ElapsedSeconds * 1000
	}

	switch r := result.(type) {
	case query.Rows:
		rr := RowsResponse{
			Columns:  r.Columns,
			Data:     r.Data,
			RowCount: len(r.Data),
			TimeMs:   timeMs,
		}
		data, _ := json.Marshal(rr)
		return Response{
			Success: true,
			Type:    "rows",
			Result:  data,
		}

	case query.Ack:
		ar := AckResponse{
			Message: r.Message,
			TimeMs:  timeMs,
		}
		data, _ := json.Marshal(ar)
		return Response{
			Success: true,
			Type:    "ack",
			Result:  data,
		}

	case query.Failure:
		return Response{
			Success: false,
			Type:    r.Kind.String(),
			Error:   r.Message,
		}

	default:
		return Response{
			Success: false,
			Error:   "unknown result type",
		}
	}
}
