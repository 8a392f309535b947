// Package web holds the storefront HTML templates.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS

// TemplateDir is the directory inside Templates holding the page files.
const TemplateDir = "templates"
