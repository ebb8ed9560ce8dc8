// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package registry implements the in-memory person registry: the record
// store, its HTTP handlers and the server-rendered page.
package registry

// Person is a registered person.
//
// JSON names follow the form field names used by the page, so the
// embedded dataset and the form share one vocabulary.
type Person struct {
	// Name is required and must be non-empty for Add.
	Name string `json:"nome" yaml:"name" validate:"required"`

	// Sex is free-form text.
	Sex string `json:"sexo" yaml:"sex"`

	// Age must be positive for Add. Update stores it unchecked.
	Age int `json:"idade" yaml:"age" validate:"gt=0"`

	// Condition describes the person's situation.
	Condition string `json:"condicao" yaml:"condition"`

	// Note is free-form text.
	Note string `json:"observacao" yaml:"note"`
}

// Entry pairs a store-assigned ID with its record.
//
// The ID is the store key; it is not kept inside Person.
type Entry struct {
	ID int `json:"id"`
	Person
}

// ErrorResponse is the JSON body for non-redirect failures.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}
