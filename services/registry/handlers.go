// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/AleutianAI/PeopleRegistry/services/registry/middleware"
	"github.com/AleutianAI/PeopleRegistry/services/registry/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handlers contains the HTTP handlers for the registry.
//
// Mutating handlers never report failure to the client: invalid input,
// unknown IDs and store errors all end in the same redirect to the index.
// Outcomes are visible only in logs and metrics.
type Handlers struct {
	store   Store
	metrics *observability.RegistryMetrics
}

// NewHandlers creates handlers backed by store.
func NewHandlers(store Store) *Handlers {
	return &Handlers{store: store}
}

// WithMetrics sets the metrics sink.
func (h *Handlers) WithMetrics(m *observability.RegistryMetrics) *Handlers {
	h.metrics = m
	return h
}

// HandleIndex handles GET /.
//
// Description:
//
//	Renders the page with the full current dataset embedded for the
//	client-side list.
//
// Response:
//
//	200 OK: HTML page
//	500 Internal Server Error: ErrorResponse when the store cannot be read
func (h *Handlers) HandleIndex(c *gin.Context) {
	logger := slog.With("request_id", middleware.GetRequestID(c), "handler", "HandleIndex")

	entries, err := h.store.List()
	if err != nil {
		logger.Error("Failed to list records", "error", err)
		h.metrics.RecordOperation(observability.OpList, observability.OutcomeError)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to list records",
			Code:  "LIST_FAILED",
		})
		return
	}

	h.metrics.RecordOperation(observability.OpList, observability.OutcomeOK)
	h.metrics.SetRecords(len(entries))
	logger.Debug("Rendering index", "records", len(entries))
	c.HTML(http.StatusOK, indexTemplateName, newPageData(entries))
}

// HandleAdd handles POST /add.
//
// Description:
//
//	Adds a record from the form fields nome, sexo, idade, condicao and
//	observacao. A missing or non-numeric idade becomes 0, which then fails
//	validation. Validation failures are dropped silently.
//
// Response:
//
//	302 Found: Location /
func (h *Handlers) HandleAdd(c *gin.Context) {
	logger := slog.With("request_id", middleware.GetRequestID(c), "handler", "HandleAdd")
	defer redirectToIndex(c)

	form, err := bindPersonForm(c)
	if err != nil {
		logger.Warn("Unreadable form", "error", err)
	}
	p, coerced := form.person()
	if !coerced {
		logger.Debug("Age is not an integer, using 0", "idade_present", form.Age != "")
	}

	id, err := h.store.Add(p)
	outcome := h.outcome(err)
	h.metrics.RecordOperation(observability.OpAdd, outcome)
	annotateSpan(c, id, outcome)

	switch outcome {
	case observability.OutcomeOK:
		logger.Info("Person added", "id", id)
		h.refreshCount()
	case observability.OutcomeInvalid:
		logger.Warn("Person rejected", "reason", err.Error())
	default:
		logger.Error("Add failed", "error", err)
	}
}

// HandleUpdate handles POST /update.
//
// Description:
//
//	Overwrites every field of the record named by id. The new values are
//	not validated. A missing, non-numeric or unknown id is a no-op.
//
// Response:
//
//	302 Found: Location /
func (h *Handlers) HandleUpdate(c *gin.Context) {
	logger := slog.With("request_id", middleware.GetRequestID(c), "handler", "HandleUpdate")
	defer redirectToIndex(c)

	form, err := bindPersonForm(c)
	if err != nil {
		logger.Warn("Unreadable form", "error", err)
	}
	id, ok := form.recordID()
	if !ok {
		logger.Info("Update ignored, no usable id")
		h.metrics.RecordOperation(observability.OpUpdate, observability.OutcomeNotFound)
		return
	}
	p, coerced := form.person()
	if !coerced {
		logger.Debug("Age is not an integer, storing 0", "id", id)
	}

	err = h.store.Update(id, p)
	outcome := h.outcome(err)
	h.metrics.RecordOperation(observability.OpUpdate, outcome)
	annotateSpan(c, id, outcome)

	switch outcome {
	case observability.OutcomeOK:
		logger.Info("Person updated", "id", id)
	case observability.OutcomeNotFound:
		logger.Info("Update ignored, unknown id", "id", id)
	default:
		logger.Error("Update failed", "id", id, "error", err)
	}
}

// HandleDelete handles POST /delete.
//
// Description:
//
//	Removes the record named by id. A missing, non-numeric or unknown id
//	is a no-op.
//
// Response:
//
//	302 Found: Location /
func (h *Handlers) HandleDelete(c *gin.Context) {
	logger := slog.With("request_id", middleware.GetRequestID(c), "handler", "HandleDelete")
	defer redirectToIndex(c)

	form, err := bindPersonForm(c)
	if err != nil {
		logger.Warn("Unreadable form", "error", err)
	}
	id, ok := form.recordID()
	if !ok {
		logger.Info("Delete ignored, no usable id")
		h.metrics.RecordOperation(observability.OpDelete, observability.OutcomeNotFound)
		return
	}

	err = h.store.Delete(id)
	outcome := h.outcome(err)
	h.metrics.RecordOperation(observability.OpDelete, outcome)
	annotateSpan(c, id, outcome)

	switch outcome {
	case observability.OutcomeOK:
		logger.Info("Person deleted", "id", id)
		h.refreshCount()
	case observability.OutcomeNotFound:
		logger.Info("Delete ignored, unknown id", "id", id)
	default:
		logger.Error("Delete failed", "id", id, "error", err)
	}
}

// HandleHealth handles GET /health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	n, err := h.store.Len()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: err.Error(),
			Code:  "STORE_UNAVAILABLE",
		})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Records: n})
}

// outcome maps a store error onto a metrics outcome label.
func (h *Handlers) outcome(err error) string {
	switch {
	case err == nil:
		return observability.OutcomeOK
	case errors.Is(err, ErrValidation):
		return observability.OutcomeInvalid
	case errors.Is(err, ErrNotFound):
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeError
	}
}

// refreshCount updates the record gauge after a size change.
func (h *Handlers) refreshCount() {
	if h.metrics == nil {
		return
	}
	if n, err := h.store.Len(); err == nil {
		h.metrics.SetRecords(n)
	}
}

// redirectToIndex answers every mutating request (redirect-after-post).
func redirectToIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, PathIndex)
}

// annotateSpan tags the otelgin request span, if any.
func annotateSpan(c *gin.Context, id int, outcome string) {
	span := trace.SpanFromContext(c.Request.Context())
	if !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Int("person.id", id),
		attribute.String("registry.outcome", outcome),
	)
}
