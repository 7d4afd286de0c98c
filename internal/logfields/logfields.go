package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyDocument   = "document"
	KeyRoute      = "route"
	KeyHref       = "href"
	KeyLinks      = "links"
	KeyDocuments  = "documents"
	KeyDurationMS = "duration_ms"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Document(path string) slog.Attr   { return slog.String(KeyDocument, path) }
func Route(route string) slog.Attr     { return slog.String(KeyRoute, route) }
func Href(href string) slog.Attr       { return slog.String(KeyHref, href) }
func Links(n int) slog.Attr            { return slog.Int(KeyLinks, n) }
func Documents(n int) slog.Attr        { return slog.Int(KeyDocuments, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Subject(subject string) slog.Attr { return slog.String(KeySubject, subject) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
