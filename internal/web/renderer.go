// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/taibuivan/legitexchange/internal/platform/constants"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StaticFiles exposes the embedded page assets rooted at static/.
func StaticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Renderer holds one template set per page, each cloned from the layout so
// their "content" blocks do not collide.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, page := range pageFiles {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("web: clone layout for %s: %w", page, err)
		}
		if _, err := clone.ParseFS(templateFS, "templates/"+page); err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", page, err)
		}
		pages[page] = clone
	}

	return &Renderer{pages: pages}, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response. Errors after the header is sent are dropped.
func (renderer *Renderer) Render(writer http.ResponseWriter, statusCode int, page string, data any) error {
	tmpl, ok := renderer.pages[page]
	if !ok {
		return fmt.Errorf("web: unknown page %q", page)
	}

	var buffer bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buffer, "layout.html", data); err != nil {
		return fmt.Errorf("web: render %s: %w", page, err)
	}

	writer.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	writer.Header().Set(constants.HeaderCacheControl, "no-store")
	writer.WriteHeader(statusCode)
	_, _ = buffer.WriteTo(writer)
	return nil
}
