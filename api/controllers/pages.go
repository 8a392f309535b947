package controllers

import (
	"net/http"

	"github.com/homemade/pickleshop/api/render"
	"github.com/homemade/pickleshop/internal/catalog"
	"github.com/homemade/pickleshop/pkg/session"
)

// Index sends a first-time visitor to signup; later visits get the landing page.
func Index(rdr *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).MarkVisited() {
			http.Redirect(w, r, "/signup", http.StatusFound)
			return
		}
		rdr.HTML(w, r, http.StatusOK, "index", "Welcome", nil)
	}
}

// Page renders a template with no data of its own.
func Page(rdr *render.Renderer, name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rdr.HTML(w, r, http.StatusOK, name, title, nil)
	}
}

// Products renders a catalog category page.
func Products(rdr *render.Renderer, category, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rdr.HTML(w, r, http.StatusOK, category, title, catalog.Category(category))
	}
}
