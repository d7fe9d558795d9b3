// Package router maps client paths to views.
package router

import (
	"errors"
	"fmt"
	"strings"
)

// View identifies a screen of the client.
type View string

const (
	ViewLogin      View = "login"
	ViewDashboard  View = "dashboard"
	ViewRecords    View = "records"
	ViewCategories View = "categories"
)

// ErrNotFound is returned for paths with no route.
var ErrNotFound = errors.New("route not found")

// Route is one entry of the table. A route either names a View or redirects
// to another path.
type Route struct {
	Path     string
	Name     string
	View     View
	Redirect string
}

// Table is an immutable path to route mapping.
type Table struct {
	routes map[string]Route
	order  []string
}

// Default returns the client's navigation table.
func Default() *Table {
	t, err := New([]Route{
		{Path: "/", Redirect: "/dashboard"},
		{Path: "/login", Name: "login", View: ViewLogin},
		{Path: "/dashboard", Name: "dashboard", View: ViewDashboard},
		{Path: "/records", Name: "records", View: ViewRecords},
		{Path: "/categories", Name: "categories", View: ViewCategories},
	})
	if err != nil {
		panic(err)
	}
	return t
}

// New builds a table and checks that every redirect lands on a view.
func New(routes []Route) (*Table, error) {
	t := &Table{routes: make(map[string]Route, len(routes))}
	for _, r := range routes {
		r.Path = normalize(r.Path)
		if _, dup := t.routes[r.Path]; dup {
			return nil, fmt.Errorf("duplicate route %q", r.Path)
		}
		if (r.View == "") == (r.Redirect == "") {
			return nil, fmt.Errorf("route %q: exactly one of view or redirect must be set", r.Path)
		}
		if r.Redirect != "" {
			r.Redirect = normalize(r.Redirect)
		}
		t.routes[r.Path] = r
		t.order = append(t.order, r.Path)
	}
	for _, p := range t.order {
		r := t.routes[p]
		if r.Redirect == "" {
			continue
		}
		target, ok := t.routes[r.Redirect]
		if !ok || target.View == "" {
			return nil, fmt.Errorf("route %q: redirect target %q is not a view", p, r.Redirect)
		}
	}
	return t, nil
}

// Resolve returns the view route for path, following a redirect.
func (t *Table) Resolve(path string) (Route, error) {
	r, ok := t.routes[normalize(path)]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if r.Redirect != "" {
		r = t.routes[r.Redirect]
	}
	return r, nil
}

// Routes lists the table in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
