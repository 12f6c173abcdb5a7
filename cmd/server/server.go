package main

import (
	"bufio"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/vellumdb/VellumDB"
	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/db"
)

// Server is a TCP SQL server that exposes the VellumDB engine.
//
// Each connection gets its own session, so USE and open transactions are
// per-client. Statement execution is serialized with a mutex because every
// mutation advances the same Git HEAD.
type Server struct {
	listener   net.Listener
	instance   *VellumDB.Instance
	identity   core.Identity
	authConfig *AuthConfig
	tlsEnabled bool
	mu         sync.Mutex
	done       chan struct{}
	wg         sync.WaitGroup
}

// NewServer creates a new SQL server with the given VellumDB instance.
// All connections use the default identity for commits.
func NewServer(instance *VellumDB.Instance, identity core.Identity) *Server {
	return &Server{
		instance: instance,
		identity: identity,
		done:     make(chan struct{}),
	}
}

// NewServerWithAuth creates a server that requires clients to authenticate
// with an AUTH command before executing queries. Commits are attributed to
// the identity claims of the presented token.
func NewServerWithAuth(instance *VellumDB.Instance, authConfig *AuthConfig) *Server {
	return &Server{
		instance:   instance,
		authConfig: authConfig,
		done:       make(chan struct{}),
	}
}

// Start begins listening for connections on the specified address.
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	s.listener = listener

	log.Printf("SQL Server listening on %s", addr)

	go s.acceptLoop()
	return nil
}

// StartTLS begins listening with TLS using the given certificate and key files.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	config := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	listener, err := tls.Listen("tcp", addr, config)
	if err != nil {
		return fmt.Errorf("failed to start TLS server: %w", err)
	}
	s.listener = listener
	s.tlsEnabled = true

	log.Printf("SQL Server listening on %s (TLS)", addr)

	go s.acceptLoop()
	return nil
}

// TLSEnabled reports whether the server is serving TLS connections.
func (s *Server) TLSEnabled() bool {
	return s.tlsEnabled
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	close(s.done)
	if s.listener != nil {
		s.listener.Close()
	}
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

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// authRequired reports whether the connection still needs to authenticate.
func (s *Server) authRequired(state *ConnectionState) bool {
	if s.authConfig == nil || !s.authConfig.Enabled {
		return false
	}
	return !state.IsAuthenticated()
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	log.Printf("Client connected: %s", conn.RemoteAddr())

	state := &ConnectionState{}
	var session *db.Session

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
			if err != io.EOF {
				log.Printf("Read error from %s: %v", conn.RemoteAddr(), err)
			}
			return
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		// Raw disconnect; EXIT goes through the parser and gets a
		// "closed" response before the connection drops
		if strings.ToLower(query) == "quit" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}

		var response Response
		switch {
		case strings.HasPrefix(strings.ToUpper(query), "AUTH "):
			response = s.handleAuth(query, state)
			if state.IsAuthenticated() {
				// Session from this point commits as the token's identity
				session = s.instance.Session(*state.Identity())
			}

		case s.authRequired(state):
			response = Response{
				Success: false,
				Error:   "authentication required",
			}

		case state.Expired():
			response = Response{
				Success: false,
				Error:   "token expired, re-authenticate",
			}

		default:
			if session == nil {
				session = s.instance.Session(s.identity)
			}
			response = s.executeQuery(session, query)
		}

		// Send response
		data, err := EncodeResponse(response)
		if err != nil {
			log.Printf("Failed to encode response: %v", err)
			continue
		}

		_, err = conn.Write(data)
		if err != nil {
			log.Printf("Write error to %s: %v", conn.RemoteAddr(), err)
			return
		}

		// EXIT acknowledged above; drop the connection
		if response.Type == "closed" {
			log.Printf("Client disconnected: %s", conn.RemoteAddr())
			return
		}
	}
}

func (s *Server) executeQuery(session *db.Session, query string) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := session.Execute(query)
	if err == db.ErrSessionClosed {
		return Response{
			Success: true,
			Type:    "closed",
		}
	}
	if err != nil {
		return Response{
			Success: false,
			Error:   err.Error(),
		}
	}

	switch r := result.(type) {
	case db.QueryResult:
		qr := QueryResponse{
			Columns:     r.Columns,
			Data:        r.Data,
			RecordsRead: r.RecordsRead,
			TimeMs:      r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(qr)
		return Response{
			Success: true,
			Type:    "query",
			Result:  data,
		}

	case db.CommitResult:
		cr := CommitResponse{
			Message:          r.Message,
			DatabasesCreated: r.DatabasesCreated,
			DatabasesDeleted: r.DatabasesDeleted,
			TablesCreated:    r.TablesCreated,
			TablesDeleted:    r.TablesDeleted,
			TablesAltered:    r.TablesAltered,
			RecordsWritten:   r.RecordsWritten,
			RecordsDeleted:   r.RecordsDeleted,
			TimeMs:           r.ExecutionTimeSec * 1000,
		}
		data, _ := json.Marshal(cr)
		return Response{
			Success: true,
			Type:    "commit",
			Result:  data,
		}

	default:
		return Response{
			Success: true,
			Type:    "unknown",
		}
	}
}
