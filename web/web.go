// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses every page template, keyed by file name.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"date": func(layout string, v interface{ Format(string) string }) string {
			return v.Format(layout)
		},
	}).ParseFS(templates, "templates/*.html")
}
