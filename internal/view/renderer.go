package view

import (
	"bytes"
	"fmt"
	"html/template"
	"socialnet/internal/utils"
)

// Renderer turns a PostView into the HTML fragment that both the feed page
// and the broadcast channel ship to clients.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(fragmentPath string) (*Renderer, error) {
	funcMap := template.FuncMap{
		"timeAgo": utils.TimeAgo,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	tmpl, err := template.New("post").Funcs(funcMap).ParseFiles(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("parse post fragment: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) RenderPost(v PostView) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "post", v); err != nil {
		return "", fmt.Errorf("render post %d: %w", v.PostID, err)
	}
	return buf.String(), nil
}
