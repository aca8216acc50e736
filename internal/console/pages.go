package console

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"guardhouse/internal/roles"
)

//go:embed templates/*.tmpl
var tplFS embed.FS

// страница -> layout.tmpl вместе с файлом страницы
type pageTemplates map[string]*template.Template

func parseTemplates(fsys fs.FS) (pageTemplates, error) {
	pages, err := fs.Glob(fsys, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("console: list templates: %w", err)
	}
	out := make(pageTemplates, len(pages))
	for _, name := range pages {
		if path.Base(name) == "layout.tmpl" {
			continue
		}
		t, err := template.New("layout").ParseFS(fsys, "templates/layout.tmpl", name)
		if err != nil {
			return nil, fmt.Errorf("console: parse %s: %w", path.Base(name), err)
		}
		out[path.Base(name)] = t
	}
	if len(out) == 0 {
		return nil, errors.New("console: no page templates")
	}
	return out, nil
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := h.t[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		h.d.Log.WithError(err).WithField("page", page).Error("render failed")
	}
}

type navLink struct {
	Title string
	Path  string
}

// пункты меню по правам; без права раздел не показывается
var navigation = []struct {
	need roles.Capability
	link navLink
}{
	{roles.ViewStaff, navLink{"Internal staff", "/console/staff/internal"}},
	{roles.ViewStaff, navLink{"External staff", "/console/staff/external"}},
	{roles.ViewStaff, navLink{"Shifts today", "/console/shifts/today"}},
	{roles.ViewStaff, navLink{"Roles", "/console/roles"}},
	{roles.ViewIncidents, navLink{"Incidents", "/console/incidents"}},
	{roles.ManageVisitors, navLink{"Visitors", "/console/visitors"}},
	{roles.ViewReports, navLink{"Activity", "/console/activity"}},
	{roles.ViewReports, navLink{"Performance", "/console/performance"}},
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	s, ok := h.d.Sessions.Current()
	if !ok {
		http.Redirect(w, r, loginURL(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	caps := s.Principal().Capabilities()
	var links []navLink
	for _, n := range navigation {
		if caps.Has(n.need) {
			links = append(links, n.link)
		}
	}
	h.render(w, http.StatusOK, "home.tmpl", map[string]any{
		"Title":        "Guardhouse",
		"Session":      describe(s),
		"Links":        links,
		"Capabilities": caps.Strings(),
	})
}

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if _, ok := h.d.Sessions.Current(); ok {
		http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
		return
	}
	h.renderLogin(w, http.StatusOK, "", next, "")
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int, identifier, next, msg string) {
	h.render(w, status, "login.tmpl", map[string]any{
		"Title":      "Sign in",
		"Identifier": identifier,
		"Next":       safeNext(next),
		"Error":      msg,
	})
}
