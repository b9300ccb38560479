// Package dashboard resolves which project or rollup context a dashboard
// page addresses and keeps the page's header and active context in sync
// with the daemon.
package dashboard

import "regexp"

// Kind distinguishes the two context types a page can address.
type Kind string

const (
	// KindProject is a directory-backed project activated via the daemon.
	KindProject Kind = "project"

	// KindRollup is a client-side aggregate view; no daemon call needed.
	KindRollup Kind = "rollup"
)

// Descriptor is a classified page path. Name is never empty.
type Descriptor struct {
	Kind Kind
	Name string
}

var (
	projectPathPattern = regexp.MustCompile(`^/project/(.+)$`)
	rollupPathPattern  = regexp.MustCompile(`^/rollup/(.+)$`)
)

// Classify parses a page path into a context descriptor. The captured name
// is taken verbatim, embedded slashes included; no decoding or trimming.
// Returns false for paths that address neither context.
func Classify(path string) (Descriptor, bool) {
	if m := projectPathPattern.FindStringSubmatch(path); m != nil {
		return Descriptor{Kind: KindProject, Name: m[1]}, true
	}
	if m := rollupPathPattern.FindStringSubmatch(path); m != nil {
		return Descriptor{Kind: KindRollup, Name: m[1]}, true
	}
	return Descriptor{}, false
}
