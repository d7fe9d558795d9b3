package router

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	table := Default()

	tests := []struct {
		path string
		want View
	}{
		{"/", ViewDashboard},
		{"", ViewDashboard},
		{"/dashboard", ViewDashboard},
		{"/dashboard/", ViewDashboard},
		{"/login", ViewLogin},
		{"/records", ViewRecords},
		{"/categories", ViewCategories},
		{"categories", ViewCategories},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, err := table.Resolve(tt.path)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.path, err)
			}
			if r.View != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, r.View, tt.want)
			}
			if r.Redirect != "" {
				t.Errorf("Resolve(%q) returned a redirect route", tt.path)
			}
		})
	}
}

func TestResolveNotFound(t *testing.T) {
	for _, p := range []string{"/settings", "/records/12", "/Login"} {
		if _, err := Default().Resolve(p); !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%q) error = %v, want ErrNotFound", p, err)
		}
	}
}

func TestNewRejectsBadTables(t *testing.T) {
	tests := []struct {
		name   string
		routes []Route
	}{
		{"duplicate", []Route{{Path: "/a", View: ViewLogin}, {Path: "/a/", View: ViewRecords}}},
		{"dangling redirect", []Route{{Path: "/", Redirect: "/nowhere"}}},
		{"redirect chain", []Route{
			{Path: "/", Redirect: "/home"},
			{Path: "/home", Redirect: "/dashboard"},
			{Path: "/dashboard", View: ViewDashboard},
		}},
		{"view and redirect", []Route{{Path: "/", View: ViewLogin, Redirect: "/"}}},
		{"neither", []Route{{Path: "/"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.routes); err == nil {
				t.Error("New() error = nil")
			}
		})
	}
}

func TestRoutesOrder(t *testing.T) {
	routes := Default().Routes()
	if len(routes) != 5 {
		t.Fatalf("len(Routes()) = %d, want 5", len(routes))
	}
	if routes[0].Path != "/" || routes[0].Redirect != "/dashboard" {
		t.Errorf("first route = %+v", routes[0])
	}
}
