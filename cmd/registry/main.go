// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command registry starts the people registry web server.
//
// The server keeps a list of people in memory and serves a single page
// with a form to add, edit and delete them. Nothing is persisted: every
// restart begins from the seed records.
//
// Usage:
//
//	go run ./cmd/registry
//	go run ./cmd/registry --port 8080 --log-level debug
//	go run ./cmd/registry --config registry.yaml --seed people.yaml
//
// With tracing:
//
//	OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4317 go run ./cmd/registry
//
// Example requests:
//
//	# Page
//	curl http://localhost:5000/
//
//	# Add a person (always answers 302 to /)
//	curl -i -X POST http://localhost:5000/add \
//	  -d nome=Carlos -d sexo=Masculino -d idade=40
//
//	# Delete a person
//	curl -i -X POST http://localhost:5000/delete -d id=4
//
//	# Health and metrics
//	curl http://localhost:5000/health
//	curl http://localhost:5000/metrics
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
