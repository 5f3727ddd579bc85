package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatTurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatar_chat_turns_total",
			Help: "Conversation turns handled, by outcome",
		},
		[]string{"outcome"}, // replied, price_short_circuit, tool_rounds_exhausted, error
	)

	ChatTurnDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "avatar_chat_turn_duration_seconds",
			Help:    "End-to-end conversation turn duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"outcome"},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatar_chat_tool_calls_total",
			Help: "Tool calls executed on behalf of the model",
		},
		[]string{"tool", "status"},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatar_chat_llm_tokens_total",
			Help: "Tokens consumed by chat completions",
		},
		[]string{"model", "type"},
	)

	KnowledgeChunksRetrieved = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "avatar_chat_knowledge_chunks_retrieved",
			Help:    "Knowledge passages injected per turn",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	KnowledgeFilesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "avatar_knowledge_files_processed_total",
			Help: "Knowledge files moved out of the pending state",
		},
		[]string{"status"},
	)
)

// Register adds every collector to the default registry. Call once from main.
func Register() {
	prometheus.MustRegister(
		ChatTurnsTotal,
		ChatTurnDuration,
		ToolCallsTotal,
		LLMTokensUsed,
		KnowledgeChunksRetrieved,
		KnowledgeFilesProcessed,
	)
}

// Handler exposes the default registry on a Fiber route
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
