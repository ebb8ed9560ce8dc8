// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the registry server.
//
// # Request Flow
//
//	Request
//	   │
//	   ▼
//	RequestID ──► reuse X-Request-ID or generate a UUID
//	   │
//	   ▼
//	RequestLogger ──► one slog line + latency histogram per request
//	   │
//	   ▼
//	RateLimit (mutating routes only, when enabled)
//	   │
//	   ▼
//	Handler (reads the ID via GetRequestID)
package middleware

import (
	"log/slog"
	"time"

	"github.com/AleutianAI/PeopleRegistry/services/registry/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "registry_request_id"

// RequestID reuses the caller's X-Request-ID or generates a UUID, stores
// it in the context and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID.
//
// Handlers mounted without the middleware (tests) get a fresh UUID, so
// log lines always carry some ID.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(string); ok && id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// RequestLogger logs one line per request and observes its latency.
//
// # Inputs
//
//   - logger: Destination for access lines. Must not be nil.
//   - metrics: Latency histogram sink. May be nil.
func RequestLogger(logger *slog.Logger, metrics *observability.RegistryMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Request.Method, elapsed)

		status := c.Writer.Status()
		attrs := []any{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if status >= 500 {
			logger.Error("Request failed", attrs...)
			return
		}
		logger.Info("Request handled", attrs...)
	}
}
