package rewrite

import (
	"path"
	"strings"
)

// Resolved carries the two path forms of an internal link target.
type Resolved struct {
	// Relative is the target expressed relative to the current document, or a
	// best-effort fallback when the document's own path is unknown.
	Relative string
	// Absolute is the target rooted at the site base, or nil when it cannot
	// be derived (relative link from an unknown origin).
	Absolute *string
}

// ResolvePaths computes the relative and absolute forms of a raw link path.
// base is the site base path ("/" or "/docs/" style), filePathRelative the
// source-root-relative path of the current document ("" = unknown).
//
// This is pure path algebra: `.`/`..` segments and duplicate separators are
// collapsed, output is always forward-slash form, and no existence checks are
// performed.
func ResolvePaths(rawPath, base, filePathRelative string) Resolved {
	if base == "" {
		base = "/"
	}

	if strings.HasPrefix(rawPath, "/") {
		abs := cleanPath(rawPath)
		res := Resolved{Absolute: &abs}
		if filePathRelative != "" {
			docDir := path.Dir(path.Join(base, filePathRelative))
			res.Relative = relativeTo(docDir, abs)
		} else {
			// Unknown origin: fall back to the absolute form.
			res.Relative = abs
		}
		return res
	}

	if filePathRelative != "" {
		// path.Join cleans away a trailing slash, which is meaningful for
		// directory links, so restore it from the raw input.
		rel := cleanPath(path.Join(path.Dir(filePathRelative), rawPath))
		if strings.HasSuffix(rawPath, "/") && !strings.HasSuffix(rel, "/") {
			rel += "/"
		}
		abs := cleanPath(path.Join(base, rel))
		if strings.HasSuffix(rel, "/") && !strings.HasSuffix(abs, "/") {
			abs += "/"
		}
		return Resolved{Relative: rel, Absolute: &abs}
	}

	// A relative link from an unknown origin has no site-root-relative
	// location; only the relative form is reportable.
	return Resolved{Relative: cleanPath(rawPath)}
}

// cleanPath normalizes a path while preserving a meaningful trailing slash,
// which path.Clean would drop.
func cleanPath(p string) string {
	if p == "" {
		return p
	}
	cleaned := path.Clean(p)
	if strings.HasSuffix(p, "/") && !strings.HasSuffix(cleaned, "/") {
		cleaned += "/"
	}
	return cleaned
}

// relativeTo expresses target relative to the directory fromDir. Both inputs
// are expected in cleaned, absolute, forward-slash form.
func relativeTo(fromDir, target string) string {
	from := splitSegments(fromDir)
	to := splitSegments(target)

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	var parts []string
	for i := common; i < len(from); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, to[common:]...)
	if len(parts) == 0 {
		return "."
	}

	rel := strings.Join(parts, "/")
	if strings.HasSuffix(target, "/") && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	return rel
}

func splitSegments(p string) []string {
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	return segs
}
