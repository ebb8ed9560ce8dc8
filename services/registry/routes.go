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
	"github.com/gin-gonic/gin"
)

// Route paths.
const (
	PathIndex  = "/"
	PathAdd    = "/add"
	PathUpdate = "/update"
	PathDelete = "/delete"
	PathHealth = "/health"
)

// RegisterRoutes registers the registry page and form endpoints.
//
// Description:
//
//	Installs the page template on the engine and registers:
//
//	GET  /        - Render the page with all records
//	POST /add     - Add a record, redirect to /
//	POST /update  - Overwrite a record, redirect to /
//	POST /delete  - Remove a record, redirect to /
//	GET  /health  - Health check
//
// Inputs:
//
//	router - Gin engine (the template is engine-wide)
//	handlers - The handlers instance
//	mutating - Extra middleware for the POST routes only (e.g. rate limit)
//
// Example:
//
//	store, _ := registry.NewStore(registry.BackendMemory, registry.DefaultSeed(), nil)
//	registry.RegisterRoutes(router, registry.NewHandlers(store))
func RegisterRoutes(router *gin.Engine, handlers *Handlers, mutating ...gin.HandlerFunc) {
	router.SetHTMLTemplate(pageTemplate())

	router.GET(PathIndex, handlers.HandleIndex)
	router.GET(PathHealth, handlers.HandleHealth)

	forms := router.Group("", mutating...)
	{
		forms.POST(PathAdd, handlers.HandleAdd)
		forms.POST(PathUpdate, handlers.HandleUpdate)
		forms.POST(PathDelete, handlers.HandleDelete)
	}
}
