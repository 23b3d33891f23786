// Package web provides the HTTP transport for the plant assistant:
// the chat endpoint, health checks, a static presentation page and a
// live transcript websocket feed.
package web

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"github.com/nabatlab/go-nabat/pkg/hub"
	"github.com/nabatlab/go-nabat/pkg/pipeline"
)

// transcriptBufferSize bounds the in-memory transcript history served
// to newly connected clients.
const transcriptBufferSize = 100

// TranscriptEntry is one completed conversation turn as seen by the
// live transcript feed. Audio payloads are omitted to keep the feed
// light; clients fetch audio from the chat response itself.
type TranscriptEntry struct {
	Time        string `json:"time"`
	UserMessage string `json:"user_message"`
	Response    string `json:"response"`
	Err         bool   `json:"error"`
}

// Config holds server configuration.
type Config struct {
	// Port to listen on, without the colon.
	Port string

	// StaticDir serves the presentation page at GET /. Empty disables
	// static serving.
	StaticDir string

	// Debug enables request logging middleware.
	Debug bool

	// Logger is the structured logger for the server.
	Logger *slog.Logger
}

// Server hosts the conversation pipeline over HTTP.
type Server struct {
	app      *fiber.App
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
	port     string

	// Transcript buffer (last transcriptBufferSize turns)
	transcript   []TranscriptEntry
	transcriptMu sync.RWMutex

	// Hub for websocket broadcast
	transcriptHub *hub.Hub
}

// NewServer creates the HTTP server around a constructed pipeline.
func NewServer(p *pipeline.Pipeline, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		pipeline:      p,
		logger:        cfg.Logger.With("component", "web"),
		port:          cfg.Port,
		transcript:    make([]TranscriptEntry, 0, transcriptBufferSize),
		transcriptHub: hub.New("transcript"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "nabat-server",
		DisableStartupMessage: true,
		// Base64 audio payloads get large.
		BodyLimit: 16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	if cfg.Debug {
		app.Use(logger.New())
	}

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	app.Post("/chat", s.handleChat)
	app.Get("/healthz", s.handleHealth)
	app.Get("/api/transcript", s.handleGetTranscript)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/transcript", websocket.New(s.handleTranscriptWS))

	s.app = app
	return s
}

// Start runs the hub loop and listens. Blocks until shutdown.
func (s *Server) Start() error {
	go s.transcriptHub.Run()

	s.logger.Info("listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// addTranscript records a turn and broadcasts it to live clients.
func (s *Server) addTranscript(resp pipeline.Response) {
	entry := TranscriptEntry{
		Time:        time.Now().Format("15:04:05"),
		UserMessage: resp.UserMessage,
		Response:    resp.ResponseText,
		Err:         resp.Err,
	}

	s.transcriptMu.Lock()
	s.transcript = append(s.transcript, entry)
	if len(s.transcript) > transcriptBufferSize {
		s.transcript = s.transcript[1:]
	}
	s.transcriptMu.Unlock()

	if err := s.transcriptHub.BroadcastJSON(entry); err != nil {
		s.logger.Warn("transcript broadcast failed", "error", err)
	}
}
