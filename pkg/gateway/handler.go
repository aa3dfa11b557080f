// Package gateway implements the HTTP adapter and per-request orchestration:
// parse, validate, build content, invoke the model, normalize the response.
package gateway

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abdhe/bedrock-chat-gateway/pkg/bedrock"
	"github.com/abdhe/bedrock-chat-gateway/pkg/cache"
	"github.com/abdhe/bedrock-chat-gateway/pkg/config"
	"github.com/abdhe/bedrock-chat-gateway/pkg/content"
	"github.com/abdhe/bedrock-chat-gateway/pkg/metrics"
	"github.com/abdhe/bedrock-chat-gateway/pkg/normalize"
)

// ChatRequest is the inbound request body. Prompt is optional when files are
// present; attachment-only requests are valid.
type ChatRequest struct {
	Prompt    string               `json:"prompt"`
	Files     []content.Attachment `json:"files"`
	MaxTokens int                  `json:"max_tokens"` // optional, clamped to the server ceiling
}

// Handler serves the chat endpoint.
type Handler struct {
	cfg       config.Config
	invoker   bedrock.Invoker
	respCache *cache.ResponseCache // nil disables caching
}

// Config holds the handler dependencies.
type Config struct {
	Gateway       config.Config
	Invoker       bedrock.Invoker
	ResponseCache *cache.ResponseCache
}

// NewHandler creates a new gateway handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		cfg:       cfg.Gateway,
		invoker:   cfg.Invoker,
		respCache: cfg.ResponseCache,
	}
}

// Register wires the handler routes onto a gin engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/api/chat", h.HandleChat)
}

// HandleChat processes one chat request end to end. Validation runs before
// any remote call; a configuration problem short-circuits before files are
// even looked at.
func (h *Handler) HandleChat(c *gin.Context) {
	start := time.Now()
	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	reqID := uuid.NewString()

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if req.Prompt == "" && len(req.Files) == 0 {
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt or files is required"})
		return
	}

	// Configuration is checked per request so a bad deployment fails the
	// same way every time, before touching files or the remote service.
	if err := h.cfg.Validate(); err != nil {
		log.Printf("[gateway] req=%s configuration error: %v", reqID, err)
		metrics.RequestsTotal.WithLabelValues("config_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "BEDROCK_MODEL_ID must be set to an inference-profile ARN"})
		return
	}

	blocks, err := content.Build(req.Prompt, req.Files)
	if err != nil {
		var ve *content.ValidationError
		if errors.As(err, &ve) {
			metrics.ValidationFailuresTotal.WithLabelValues(ve.Reason).Inc()
		}
		log.Printf("[gateway] req=%s rejected: %v", reqID, err)
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var images, documents int
	for _, f := range req.Files {
		switch f.Kind {
		case content.KindImage:
			images++
		case content.KindDocument:
			documents++
		}
	}
	metrics.AttachmentsTotal.WithLabelValues("image").Add(float64(images))
	metrics.AttachmentsTotal.WithLabelValues("document").Add(float64(documents))

	// -------------------------------------------------------------------------
	// Cache lookup
	// -------------------------------------------------------------------------
	cacheKey := ""
	if h.respCache != nil {
		cacheKey = cache.Key(h.cfg.ModelID, req.Prompt, req.Files)
		entry, found, err := h.respCache.Get(ctx, cacheKey)
		if err != nil {
			log.Printf("[gateway] req=%s cache lookup error: %v", reqID, err)
		}
		metrics.RecordCacheLookup(found)
		if found {
			metrics.RequestsTotal.WithLabelValues("cache_hit").Inc()
			metrics.RequestLatency.WithLabelValues("hit").Observe(time.Since(start).Seconds())
			log.Printf("[gateway] req=%s cache hit shape=%s latency=%s", reqID, entry.Shape, time.Since(start))
			c.JSON(http.StatusOK, gin.H{"response": entry.Text})
			return
		}
	}

	// -------------------------------------------------------------------------
	// Invoke
	// -------------------------------------------------------------------------
	maxTokens := h.cfg.MaxTokens
	if req.MaxTokens > 0 && req.MaxTokens < maxTokens {
		maxTokens = req.MaxTokens
	}

	invokeReq := bedrock.Request{
		ModelID:   h.cfg.ModelID,
		Messages:  []content.Message{content.UserMessage(blocks)},
		MaxTokens: maxTokens,
	}
	if h.cfg.GuardrailEnabled() {
		invokeReq.Guardrail = &bedrock.Guardrail{
			ID:      h.cfg.GuardrailID,
			Version: h.cfg.GuardrailVersion,
		}
	}

	raw, err := h.invoker.Invoke(ctx, invokeReq)
	if err != nil {
		log.Printf("[gateway] req=%s invoke error: %v", reqID, err)
		metrics.RequestsTotal.WithLabelValues("invoke_error").Inc()
		metrics.RequestLatency.WithLabelValues("error").Observe(time.Since(start).Seconds())

		detail := err.Error()
		var ie *bedrock.InvocationError
		if errors.As(err, &ie) {
			detail = ie.Detail
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "model invocation failed; check the request format and guardrail configuration",
			"details": detail,
		})
		return
	}

	// -------------------------------------------------------------------------
	// Normalize
	// -------------------------------------------------------------------------
	text, shape, ok := normalizeAndLog(reqID, raw)

	latency := time.Since(start)
	metrics.RequestLatency.WithLabelValues(cacheStatus(h.respCache)).Observe(latency.Seconds())
	metrics.RequestsTotal.WithLabelValues("success").Inc()
	log.Printf("[gateway] req=%s done shape=%s images=%d documents=%d latency=%s", reqID, shapeLabel(shape), images, documents, latency)

	if !ok {
		// The remote call itself succeeded; an unrecognized shape is a
		// null answer, not an error.
		c.JSON(http.StatusOK, gin.H{"response": nil})
		return
	}

	// Store asynchronously so the caller never waits on Redis.
	if h.respCache != nil {
		entry := cache.Entry{Text: text, Shape: shape}
		go func() {
			storeCtx, storeCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer storeCancel()
			if err := h.respCache.Set(storeCtx, cacheKey, entry); err != nil {
				log.Printf("[gateway] req=%s cache store error: %v", reqID, err)
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{"response": text})
}

// normalizeAndLog extracts the answer text and records the matched shape.
// On a normalization gap the full raw response is logged for offline
// diagnosis.
func normalizeAndLog(reqID string, raw []byte) (text string, shape string, ok bool) {
	text, shape, ok = normalize.ExtractText(raw)
	metrics.ResponseShapeTotal.WithLabelValues(shapeLabel(shape)).Inc()
	if !ok {
		log.Printf("[gateway] req=%s no assistant text in response; raw=%s", reqID, string(raw))
	}
	return text, shape, ok
}

func cacheStatus(c *cache.ResponseCache) string {
	if c == nil {
		return "bypass"
	}
	return "miss"
}

func shapeLabel(shape string) string {
	if shape == "" {
		return "none"
	}
	return shape
}
