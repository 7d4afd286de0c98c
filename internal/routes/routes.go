// Package routes maps filesystem-style document paths to the route paths the
// compiled site serves them under.
package routes

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var readmePattern = regexp.MustCompile(`(^|/)(?i:README)\.md$`)

// Infer returns the served route path for a document path ending in `.md`,
// `.html`, or `/`. Empty paths and directory paths are returned as-is.
//
// `README.md` becomes `index.html` within its directory, `.md` becomes
// `.html`, extensionless paths gain `.html`, and a trailing `index.html`
// collapses to the directory route. Output is NFC normalized so routes built
// on different platforms compare equal.
func Infer(path string) string {
	if path == "" || strings.HasSuffix(path, "/") {
		return path
	}

	route := readmePattern.ReplaceAllString(path, "${1}index.html")
	if strings.HasSuffix(route, ".md") {
		route = strings.TrimSuffix(route, ".md") + ".html"
	} else if !strings.HasSuffix(route, ".html") {
		route += ".html"
	}
	if strings.HasSuffix(route, "/index.html") {
		route = strings.TrimSuffix(route, "index.html")
	}
	return norm.NFC.String(route)
}
