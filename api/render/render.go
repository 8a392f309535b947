package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/homemade/pickleshop/pkg/logger"
	"github.com/homemade/pickleshop/pkg/session"
)

const layoutFile = "base.html"

// Page is the value every template is executed with.
type Page struct {
	Name      string
	Title     string
	Flashes   []string
	LoggedIn  bool
	Username  string
	CartCount int
	Data      any
}

// CartCounter reports how many units sit in the session's cart.
type CartCounter func(ctx context.Context, sess *session.Session) int

type Renderer struct {
	pages   map[string]*template.Template
	counter CartCounter
	logg    *logger.Logger
}

// New parses every page in dir against the shared layout.
func New(fsys fs.FS, dir string, counter CartCounter, logg *logger.Logger) (*Renderer, error) {
	files, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	layout := path.Join(dir, layoutFile)

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layout {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(layoutFile).Funcs(funcs).ParseFS(fsys, layout, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no templates found in %s", dir)
	}
	return &Renderer{pages: pages, counter: counter, logg: logg}, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// HTML renders the named page. Pending flashes are consumed from the session.
func (r *Renderer) HTML(w http.ResponseWriter, req *http.Request, status int, name, title string, data any) {
	ctx := req.Context()
	tmpl, ok := r.pages[name]
	if !ok {
		r.logg.Error(r.logg.WithField(ctx, "template", name), "render.template.missing", nil)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sess := session.FromContext(ctx)
	page := Page{
		Name:     name,
		Title:    title,
		Flashes:  sess.PopFlashes(),
		LoggedIn: sess.LoggedIn,
		Username: sess.Username,
		Data:     data,
	}
	if r.counter != nil {
		page.CartCount = r.counter(ctx, sess)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutFile, page); err != nil {
		r.logg.Error(r.logg.WithField(ctx, "template", name), "render.execute.failed", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "₹" + d.StringFixed(2)
	},
	"fixed": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
}
