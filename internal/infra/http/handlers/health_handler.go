package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Pinger is any dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store       Pinger
	StoreName   string
	RabbitMQ    *amqp091.Connection
	Cache       Pinger
	StartTime   time.Time
	Version     string
	PingTimeout time.Duration
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Uptime       string            `json:"uptime"`
	Dependencies map[string]string `json:"dependencies"`
}

func NewHealthHandler(store Pinger, storeName string, rabbitMQ *amqp091.Connection, cache Pinger) *HealthHandler {
	return &HealthHandler{
		Store:       store,
		StoreName:   storeName,
		RabbitMQ:    rabbitMQ,
		Cache:       cache,
		StartTime:   time.Now(),
		Version:     "1.0.0",
		PingTimeout: 2 * time.Second,
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.PingTimeout)
	defer cancel()

	storeStatus := ping(ctx, h.Store)
	deps := map[string]string{
		"store": storeStatus,
		"redis": ping(ctx, h.Cache),
	}
	if h.StoreName != "" {
		deps["store"] = h.StoreName + " " + storeStatus
	}

	if h.RabbitMQ != nil {
		if h.RabbitMQ.IsClosed() {
			deps["rabbitmq"] = "unhealthy: connection closed"
		} else {
			deps["rabbitmq"] = "healthy"
		}
	} else {
		deps["rabbitmq"] = "not configured"
	}

	// the store is the only hard dependency; broker and cache degrade gracefully
	status := "healthy"
	code := http.StatusOK
	switch {
	case storeStatus != "healthy":
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	case strings.HasPrefix(deps["redis"], "unhealthy"), strings.HasPrefix(deps["rabbitmq"], "unhealthy"):
		status = "degraded"
	}

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      h.Version,
		Uptime:       time.Since(h.StartTime).Round(time.Second).String(),
		Dependencies: deps,
	})
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not configured"
	}
	if err := p.Ping(ctx); err != nil {
		return fmt.Sprintf("unhealthy: %v", err)
	}
	return "healthy"
}
