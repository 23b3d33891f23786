package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/nabatlab/go-nabat/pkg/hub"
	"github.com/nabatlab/go-nabat/pkg/pipeline"
)

// handleChat runs one conversation turn. The response is always HTTP
// 200; failure is signaled via the error flag in the body.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req pipeline.Request
	if err := c.BodyParser(&req); err != nil {
		// A missing or malformed body degrades to an empty request,
		// which the pipeline answers with a fixed apology.
		s.logger.Warn("unparseable chat body", "error", err)
		req = pipeline.Request{}
	}

	resp := s.pipeline.Process(c.Context(), req)
	s.addTranscript(resp)

	return c.JSON(resp)
}

// handleHealth reports liveness and transcript feed state.
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"feed":    s.transcriptHub.IsRunning(),
		"clients": s.transcriptHub.ClientCount(),
	})
}

// handleGetTranscript returns the buffered recent turns.
func (s *Server) handleGetTranscript(c *fiber.Ctx) error {
	s.transcriptMu.RLock()
	defer s.transcriptMu.RUnlock()
	return c.JSON(s.transcript)
}

// handleTranscriptWS streams each completed turn to the client. Recent
// history is replayed on connect.
func (s *Server) handleTranscriptWS(c *websocket.Conn) {
	s.transcriptMu.RLock()
	for _, entry := range s.transcript {
		c.WriteJSON(entry)
	}
	s.transcriptMu.RUnlock()

	client := hub.NewClient(s.transcriptHub, c)
	client.Run() // Blocks until connection closes
}
