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

import "errors"

// Sentinel errors for the registry.
var (
	// ErrValidation indicates an add with an empty name or non-positive age.
	ErrValidation = errors.New("invalid person")

	// ErrNotFound indicates no record exists for the ID.
	ErrNotFound = errors.New("person not found")

	// ErrUnknownBackend indicates an unsupported store backend name.
	ErrUnknownBackend = errors.New("unknown store backend")

	// ErrInvalidSeed indicates a seed record failed validation.
	ErrInvalidSeed = errors.New("invalid seed record")

	// ErrStoreClosed indicates the store was used after Close.
	ErrStoreClosed = errors.New("store closed")
)
