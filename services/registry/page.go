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
	"embed"
	"html/template"
)

// indexTemplateName is the gin HTML template name of the page.
const indexTemplateName = "index.html"

//go:embed templates/index.html
var templatesFS embed.FS

// pageTemplate parses the embedded page.
//
// The dataset is embedded with html/template's JavaScript-context
// escaping, which JSON-encodes it and neutralizes "</script>" sequences.
func pageTemplate() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/index.html"))
}

// pageData is the template input for the index page.
//
// People is always the complete current dataset; the page has no
// incremental updates.
type pageData struct {
	People    []Entry
	Count     int
	AddURL    string
	UpdateURL string
	DeleteURL string
}

func newPageData(entries []Entry) pageData {
	return pageData{
		People:    entries,
		Count:     len(entries),
		AddURL:    PathAdd,
		UpdateURL: PathUpdate,
		DeleteURL: PathDelete,
	}
}
