package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/verdict/internal/logger"
)

// QueryRequest is the body of /ask and /retrieve.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k"`
}

// AskResponse is the body of a successful /ask.
type AskResponse struct {
	Answer string `json:"answer"`
}

// ChunkResponse is one retrieved chunk.
type ChunkResponse struct {
	ChunkID   string  `json:"chunk_id"`
	ActTitle  string  `json:"act_title"`
	ChunkType string  `json:"chunk_type"`
	Content   string  `json:"content"`
	Distance  float32 `json:"distance"`
}

// RetrieveResponse is the body of a successful /retrieve.
type RetrieveResponse struct {
	Chunks []ChunkResponse `json:"chunks"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "VerdictAI Legal Assistant API"})
}

func (s *Server) handleAsk(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	answer, err := s.ports.Answer.Ask(c.Request.Context(), req.Query, s.topK(req))
	if err != nil {
		if kind := generationErrorKind(err); kind != "" {
			s.metrics.GenerationError(kind)
		}
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, AskResponse{Answer: answer.Text})
}

func (s *Server) handleRetrieve(c *gin.Context) {
	req, ok := s.bind(c)
	if !ok {
		return
	}

	results, err := s.ports.Retrieval.Retrieve(c.Request.Context(), req.Query, s.topK(req))
	if err != nil {
		s.fail(c, err)
		return
	}

	chunks := make([]ChunkResponse, len(results))
	for i, r := range results {
		chunks[i] = ChunkResponse{
			ChunkID:   r.Chunk.ID,
			ActTitle:  r.Chunk.ActTitle,
			ChunkType: r.Chunk.Type.String(),
			Content:   r.Chunk.Content,
			Distance:  r.Distance,
		}
	}
	c.JSON(http.StatusOK, RetrieveResponse{Chunks: chunks})
}

func (s *Server) handleChunk(c *gin.Context) {
	chunk, err := s.ports.Retrieval.Chunk(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ChunkResponse{
		ChunkID:   chunk.ID,
		ActTitle:  chunk.ActTitle,
		ChunkType: chunk.Type.String(),
		Content:   chunk.Content,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	m, err := s.ports.Retrieval.Manifest(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "build_id": m.BuildID, "chunks": m.VectorCount})
}

func (s *Server) bind(c *gin.Context) (QueryRequest, bool) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Debug("http: bad request body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
		return req, false
	}
	return req, true
}

func (s *Server) topK(req QueryRequest) int {
	if req.TopK == nil {
		return s.cfg.DefaultTopK
	}
	return *req.TopK
}

// fail writes the mapped status. Server-side failures are logged with
// their detail; the client only sees the fixed message.
func (s *Server) fail(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": msg})
}
