// Command navalbattle starts the naval battle game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, debug logging, version output,
// and optional ngrok tunneling for easy external access during development.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/navalbattle/api"
	"github.com/wricardo/mcp-training/navalbattle/game/config"
	"github.com/wricardo/mcp-training/navalbattle/game/service"
	"github.com/wricardo/mcp-training/navalbattle/game/session"
	"github.com/wricardo/mcp-training/navalbattle/transport/mcp"
	"github.com/wricardo/mcp-training/navalbattle/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Naval Battle Server"
)

// Session retention
const (
	sessionMaxAge       = 24 * time.Hour
	sessionCleanupEvery = time.Hour
)

// Configuration flags control how the server starts and which services are enabled.
var (
	port         = flag.Int("port", 8080, "HTTP server port")
	host         = flag.String("host", "localhost", "HTTP server host")
	configDir    = flag.String("config-dir", getConfigDirDefault(), "Directory containing match configurations")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

// getConfigDirDefault returns the default configuration directory.
// It first honors the CONFIG_DIR environment variable, then falls back to "configs".
func getConfigDirDefault() string {
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		return configDir
	}
	return "configs"
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio, mcp   Aliases for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090         # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp          # Run MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warn("error loading .env file", "err", err)
		}
	} else {
		log.Info("loaded environment variables from .env file")
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	if *debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	}

	args := flag.Args()
	mode := "server"
	if len(args) > 0 {
		mode = args[0]
	}

	log.Info("starting", "app", AppName, "version", Version, "mode", mode)

	gameService, err := initializeServices()
	if err != nil {
		log.Fatal("failed to initialize services", "err", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCPWithInternalServer(gameService)

	case "server", "http":
		runHTTPServer(gameService)

	default:
		log.Fatal("unknown mode, use 'server' (default) or 'stdio-mcp'", "mode", mode)
	}
}

// mcpHandler serves single JSON-RPC messages of the MCP server over HTTP POST
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the REST API at the root and the MCP proxy at /mcp
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", api.NewServer(gameService, hub))
	mainRouter.HandleFunc("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return mainRouter
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(gameService service.GameService) {
	hub := websocket.NewHub()
	go hub.Run()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	mainRouter := newRouter(gameService, hub, "http://"+addr)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info("HTTP server listening", "addr", addr)
		log.Info("endpoints",
			"rest", fmt.Sprintf("http://%s/api", addr),
			"websocket", fmt.Sprintf("ws://%s/ws?session=<session_id>", addr),
			"mcp", fmt.Sprintf("http://%s/mcp", addr))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", "err", err)
		}
	}()

	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter)
		}()
	}

	sig := <-stop
	log.Info("shutting down", "signal", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "err", err)
	}

	wg.Wait()
	log.Info("server stopped")
}

// ngrokAuthToken resolves the auth token from the flag or the environment
func ngrokAuthToken() string {
	if *ngrokAuth != "" {
		return *ngrokAuth
	}
	if token := os.Getenv("NGROK_AUTHTOKEN"); token != "" {
		return token
	}
	return os.Getenv("NGROK_AUTH_TOKEN")
}

// runNgrokTunnel serves handler through an ngrok HTTP endpoint until ctx is cancelled
func runNgrokTunnel(ctx context.Context, handler http.Handler) {
	authToken := ngrokAuthToken()
	if authToken == "" {
		log.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Info("starting ngrok tunnel")

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Info("using custom ngrok domain", "domain", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Error("failed to start ngrok tunnel", "err", err)
		return
	}
	defer func() {
		if err := tun.Close(); err != nil {
			log.Error("failed to close ngrok tunnel", "err", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Info("ngrok tunnel established",
		"url", ngrokURL,
		"rest", ngrokURL+"/api",
		"websocket", ngrokURL+"/ws?session=<session_id>",
		"mcp", ngrokURL+"/mcp")

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		log.Error("ngrok server error", "err", err)
	}
	log.Info("ngrok tunnel closed")
}

// initializeServices wires session/config managers and the game service.
// It also starts a background cleanup routine to prune stale sessions.
func initializeServices() (service.GameService, error) {
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	log.Debug("configs loaded", "dir", *configDir, "default", configManager.GetDefault().Name)

	sessionManager := session.NewManager()
	gameService := service.NewGameService(sessionManager, configManager)

	go sessionCleanupRoutine(sessionManager)

	return gameService, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupEvery)
	defer ticker.Stop()

	for range ticker.C {
		if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
			log.Info("cleaned up expired sessions", "removed", removed, "remaining", manager.Count())
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	var baseURL string

	externalURL := "http://localhost:8080"
	log.Info("checking for external API server", "url", externalURL)

	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Info("external API server found, using it for MCP", "url", externalURL)
		baseURL = externalURL
	} else {
		log.Info("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatal("failed to get available port", "err", err)
		}
		internalAddr := listener.Addr().String()

		hub := websocket.NewHub()
		go hub.Run()

		httpServer := &http.Server{
			Handler: api.NewServer(gameService, hub),
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error("internal HTTP server error", "err", err)
			}
		}()

		baseURL = "http://" + internalAddr
		log.Info("internal HTTP server started for MCP stdio", "addr", internalAddr)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info("MCP stdio server ready", "api", baseURL)

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatal("MCP stdio server error", "err", err)
	}
}
