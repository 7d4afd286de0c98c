package rewrite

import (
	"net/url"
	"strings"
)

// ExternalLinkClassifier decides whether a href leaves the site. The rewriter
// never considers a href the classifier marks external for internal
// rewriting.
type ExternalLinkClassifier interface {
	Classify(href string, env *Env) bool
}

// SameOriginClassifier is the default classifier: protocol-relative links and
// absolute URLs are external unless their origin matches the environment's
// base. A bare path base ("/", "/docs/") has no origin, so every absolute URL
// is external under it.
type SameOriginClassifier struct{}

// Classify implements ExternalLinkClassifier.
func (SameOriginClassifier) Classify(href string, env *Env) bool {
	if strings.HasPrefix(href, "//") {
		return true
	}

	u, err := url.Parse(href)
	if err != nil {
		// Unparseable hrefs are left to the internal shape matcher, which
		// skips anything without a path-like segment.
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return false
	}

	base := "/"
	if env != nil && env.Base != "" {
		base = env.Base
	}
	if b, err := url.Parse(base); err == nil && b.Host != "" {
		return u.Host != b.Host
	}
	return true
}

// ClassifierFunc adapts a plain function to ExternalLinkClassifier.
type ClassifierFunc func(href string, env *Env) bool

// Classify implements ExternalLinkClassifier.
func (f ClassifierFunc) Classify(href string, env *Env) bool { return f(href, env) }
