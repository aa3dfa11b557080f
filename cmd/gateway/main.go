// Bedrock Chat Gateway — main entry point
//
// Environment variables:
//
//	HTTP_PORT            — API server port (default: 8080)
//	METRICS_PORT         — Prometheus metrics HTTP port (default: 9090)
//	BEDROCK_MODEL_ID     — model id; must be an inference-profile ARN
//	BEDROCK_ENDPOINT     — Bedrock runtime base URL (default derived from AWS_REGION)
//	BEDROCK_API_KEY      — bearer token for the runtime endpoint (optional)
//	AWS_REGION           — region for the default endpoint (default: ap-northeast-1)
//	GUARDRAIL_ID         — guardrail identifier (optional; absent disables guardrail)
//	GUARDRAIL_VERSION    — guardrail version (default: DRAFT)
//	MAX_TOKENS           — generation ceiling (default: 1000)
//	REQUEST_TIMEOUT      — per-request timeout (default: 30s)
//	CACHE_ENABLED        — enable the Redis response cache (default: false)
//	REDIS_ADDR           — Redis address (default: localhost:6379)
//	REDIS_PASSWORD       — Redis password (default: "")
//	REDIS_DB             — Redis database (default: 0)
//	CACHE_TTL            — cache TTL duration (default: 1h)
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdhe/bedrock-chat-gateway/pkg/bedrock"
	"github.com/abdhe/bedrock-chat-gateway/pkg/cache"
	"github.com/abdhe/bedrock-chat-gateway/pkg/config"
	"github.com/abdhe/bedrock-chat-gateway/pkg/gateway"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Bedrock Chat Gateway...")

	// -------------------------------------------------------------------------
	// Configuration from environment
	// -------------------------------------------------------------------------
	httpPort := envOrDefault("HTTP_PORT", "8080")
	metricsPort := envOrDefault("METRICS_PORT", "9090")
	region := envOrDefault("AWS_REGION", "ap-northeast-1")
	endpoint := envOrDefault("BEDROCK_ENDPOINT", fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region))
	apiKey := os.Getenv("BEDROCK_API_KEY")
	cacheEnabled := envBoolOrDefault("CACHE_ENABLED", false)
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	redisPassword := envOrDefault("REDIS_PASSWORD", "")
	redisDB := envIntOrDefault("REDIS_DB", 0)
	cacheTTL := envDurationOrDefault("CACHE_TTL", 1*time.Hour)

	cfg := config.Config{
		ModelID:          envOrDefault("BEDROCK_MODEL_ID", config.DefaultModelID),
		GuardrailID:      os.Getenv("GUARDRAIL_ID"),
		GuardrailVersion: envOrDefault("GUARDRAIL_VERSION", config.DefaultGuardrailVersion),
		Endpoint:         endpoint,
		APIKey:           apiKey,
		MaxTokens:        envIntOrDefault("MAX_TOKENS", 1000),
		RequestTimeout:   envDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		// Not fatal: the gateway still serves, answering every request with
		// a stable configuration error until the deployment is fixed.
		log.Printf("WARNING: %v", err)
	}
	if cfg.GuardrailEnabled() {
		log.Printf("Guardrail enabled: id=%s version=%s", cfg.GuardrailID, cfg.GuardrailVersion)
	}

	// -------------------------------------------------------------------------
	// Initialize response cache
	// -------------------------------------------------------------------------
	var respCache *cache.ResponseCache
	if cacheEnabled {
		rc := cache.NewResponseCache(redisAddr, redisPassword, redisDB, cacheTTL)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rc.Ping(ctx); err != nil {
			log.Printf("WARNING: Redis connection failed: %v (cache disabled)", err)
		} else {
			respCache = rc
			log.Printf("Response cache enabled (TTL=%s)", cacheTTL)
		}
		cancel()
	}

	// -------------------------------------------------------------------------
	// Create handler and API server
	// -------------------------------------------------------------------------
	handler := gateway.NewHandler(gateway.Config{
		Gateway:       cfg,
		Invoker:       bedrock.NewClient(cfg.Endpoint, cfg.APIKey),
		ResponseCache: respCache,
	})

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler.Register(router)

	apiServer := &http.Server{
		Addr:        ":" + httpPort,
		Handler:     router,
		ReadTimeout: 30 * time.Second,
		// Attachments can take a while to round-trip; leave write headroom
		// over the per-request timeout.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
	}

	go func() {
		log.Printf("API server listening on :%s", httpPort)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server error: %v", err)
		}
	}()

	// -------------------------------------------------------------------------
	// Start HTTP metrics server
	// -------------------------------------------------------------------------
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsMux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	metricsServer := &http.Server{
		Addr:         ":" + metricsPort,
		Handler:      metricsMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Metrics server listening on :%s/metrics", metricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Metrics server error: %v", err)
		}
	}()

	// -------------------------------------------------------------------------
	// Graceful shutdown
	// -------------------------------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server shutdown error: %v", err)
	}
	log.Println("API server stopped")

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Metrics server shutdown error: %v", err)
	}
	log.Println("Metrics server stopped")

	if respCache != nil {
		if err := respCache.Close(); err != nil {
			log.Printf("Cache close error: %v", err)
		}
	}

	log.Println("Bedrock Chat Gateway shut down successfully")
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func envDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
