package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"
)

type PageHandler struct {
	tmpl      *template.Template
	title     string
	modelName string
	logger    *zap.Logger
}

// NewPageHandler parses index.html from templates up front so that a broken
// template fails startup rather than a request.
func NewPageHandler(templates fs.FS, title, modelName string, logger *zap.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templates, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chat page template: %w", err)
	}
	return &PageHandler{
		tmpl:      tmpl,
		title:     title,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := h.tmpl.Execute(&buf, map[string]string{
		"Title":     h.title,
		"ModelName": h.modelName,
	})
	if err != nil {
		h.logger.Error("failed to render chat page", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
