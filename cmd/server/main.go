package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vellumdb/VellumDB"
	"github.com/vellumdb/VellumDB/core"
	"github.com/vellumdb/VellumDB/ps"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	port := flag.Int("port", 3306, "TCP port to listen on")
	baseDir := flag.String("baseDir", "", "Base directory for persistence (memory if empty)")
	gitUrl := flag.String("gitUrl", "", "Git URL for remote sync")
	name := flag.String("name", "VellumDB Server", "Author name for commits")
	email := flag.String("email", "server@vellumdb.local", "Author email for commits")
	jwtSecret := flag.String("jwtSecret", "", "Require JWT authentication with this HS256 secret")
	tlsCert := flag.String("tlsCert", "", "TLS certificate file (enables TLS with -tlsKey)")
	tlsKey := flag.String("tlsKey", "", "TLS private key file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("VellumDB SQL Server v%s\n", Version)
		return
	}

	// Initialize persistence
	var instance *VellumDB.Instance
	if *baseDir == "" {
		log.Println("Using memory persistence")
		persistence, err := ps.NewMemoryPersistence()
		if err != nil {
			log.Fatalf("Failed to initialize memory persistence: %v", err)
		}
		instance = VellumDB.Open(&persistence)
	} else {
		log.Printf("Using file persistence: %s", *baseDir)
		var gitUrlPtr *string
		if *gitUrl != "" {
			gitUrlPtr = gitUrl
		}
		persistence, err := ps.NewFilePersistence(*baseDir, gitUrlPtr)
		if err != nil {
			log.Fatalf("Failed to initialize file persistence: %v", err)
		}
		instance = VellumDB.Open(&persistence)
	}

	// Create and start server
	var server *Server
	if *jwtSecret != "" {
		server = NewServerWithAuth(instance, &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
		})
	} else {
		identity := core.Identity{
			Name:  *name,
			Email: *email,
		}
		server = NewServer(instance, identity)
	}

	addr := fmt.Sprintf(":%d", *port)

	var err error
	if *tlsCert != "" || *tlsKey != "" {
		if *tlsCert == "" || *tlsKey == "" {
			log.Fatal("TLS requires both -tlsCert and -tlsKey")
		}
		err = server.StartTLS(addr, *tlsCert, *tlsKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   VellumDB SQL Server v%-14s  ║\n", Version)
	fmt.Println("║   Git-backed SQL Database Engine      ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	if server.TLSEnabled() {
		fmt.Println("TLS enabled")
	}
	if *jwtSecret != "" {
		fmt.Println("Authentication required: AUTH JWT <token>")
	}
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
