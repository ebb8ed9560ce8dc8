// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests with 429 once the shared token bucket is
// empty. A nil limiter lets every request through.
//
// The bucket is process-wide, not per client.
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limiter.Allow() {
			c.Next()
			return
		}
		slog.Warn("Rate limit exceeded",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "too many requests",
			"code":  "RATE_LIMITED",
		})
	}
}

// NewLimiter returns a limiter for perSecond requests with the given
// burst, or nil when perSecond is zero or negative.
func NewLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
