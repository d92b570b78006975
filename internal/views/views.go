// Package views holds the server rendered pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Funcs are the helpers available inside every template.
var Funcs = template.FuncMap{
	"format_date":   FormatDate,
	"format_plural": FormatPlural,
	"format_url":    FormatURL,
}

// Templates parses every page. It panics on a broken template since the
// files are compiled into the binary.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html"))
}

// FormatDate renders t as M/D/YYYY.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}

// FormatPlural appends an "s" to word unless amount is exactly one.
func FormatPlural(word string, amount int) string {
	if amount != 1 {
		return word + "s"
	}
	return word
}

// FormatURL reduces a link to its bare host for display.
func FormatURL(raw string) string {
	s := strings.Replace(raw, "http://", "", 1)
	s = strings.Replace(s, "https://", "", 1)
	s = strings.Replace(s, "www.", "", 1)
	s, _, _ = strings.Cut(s, "/")
	s, _, _ = strings.Cut(s, "?")
	return s
}
