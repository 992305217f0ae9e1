package main

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crucial707/changelog-browser/internal/filter"
)

var templateFuncs = template.FuncMap{
	"eq":    func(a, b interface{}) bool { return a == b },
	"flag":  filter.Flag,
	"name":  filter.CountryName,
	"lower": strings.ToLower,
}

// renderTemplate executes templates/name inside the shared layout. The page
// is buffered so a template error still yields a clean 500.
func renderTemplate(w http.ResponseWriter, log *logrus.Logger, status int, name string, data interface{}) {
	content, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	layout, _ := templatesFS.ReadFile("templates/layout.html")
	t := template.Must(template.New("").Funcs(templateFuncs).Parse(string(layout)))
	t = template.Must(t.New("").Parse(string(content)))

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.WithError(err).WithField("template", name).Error("template execute")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
