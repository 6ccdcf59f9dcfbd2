// Package siteurl classifies hrefs against the forum's routing table. Only a
// handful of routes matter to this subsystem: the topic-show route (the one
// that yields an internal topic id for sidebar links) and the legacy docs
// paths handled by the redirect controllers.
package siteurl

import (
	"net/url"
	"strconv"
	"strings"
)

// Resource kinds recognized by RouteFor.
const (
	ResourceTopic    = "topic"
	ResourceCategory = "category"
	ResourceUser     = "user"
	ResourceTag      = "tag"
)

// Route is a matched internal route. TopicID is set only for ResourceTopic.
type Route struct {
	Resource string
	TopicID  int64
}

// Matcher resolves hrefs against the site's own host and base path.
// The zero value is not usable; construct with NewMatcher.
type Matcher struct {
	host     string
	basePath string
}

// NewMatcher builds a Matcher from the site's base URL, e.g.
// "https://forum.example.com" or "https://example.com/community" for
// subfolder installs. An empty baseURL yields a host-agnostic matcher that
// accepts any absolute URL's path.
func NewMatcher(baseURL string) (*Matcher, error) {
	m := &Matcher{}
	if baseURL == "" {
		return m, nil
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	m.host = strings.ToLower(u.Host)
	m.basePath = strings.TrimSuffix(u.Path, "/")
	return m, nil
}

// ExtractTopicID returns the internal topic id a href points at, or false for
// everything else: external URLs, malformed values, and internal routes to
// other resource types. It never fails on garbage input.
func (m *Matcher) ExtractTopicID(href string) (int64, bool) {
	route, ok := m.RouteFor(href)
	if !ok || route.Resource != ResourceTopic {
		return 0, false
	}
	return route.TopicID, true
}

// RouteFor classifies a href against the routing table. Relative paths,
// absolute URLs on the site's own host, and protocol-relative URLs on the own
// host are routable; everything else is not.
func (m *Matcher) RouteFor(href string) (Route, bool) {
	path, ok := m.sitePath(href)
	if !ok {
		return Route{}, false
	}

	segments := splitPath(path)
	if len(segments) == 0 {
		return Route{}, false
	}

	switch segments[0] {
	case "t":
		if id, ok := topicIDFromSegments(segments[1:]); ok {
			return Route{Resource: ResourceTopic, TopicID: id}, true
		}
	case "c":
		if len(segments) > 1 {
			return Route{Resource: ResourceCategory}, true
		}
	case "u":
		if len(segments) > 1 {
			return Route{Resource: ResourceUser}, true
		}
	case "tag":
		if len(segments) > 1 {
			return Route{Resource: ResourceTag}, true
		}
	}

	return Route{}, false
}

// IsDocsPath reports whether a request path belongs to the legacy
// documentation-index routes, consumed by the redirect controllers.
func (m *Matcher) IsDocsPath(path string) bool {
	p, ok := m.sitePath(path)
	if !ok {
		return false
	}
	segments := splitPath(p)
	if len(segments) == 0 {
		return false
	}
	return segments[0] == "docs" || segments[0] == "knowledge-explorer"
}

// sitePath reduces a href to a site-relative path, or reports false when the
// href does not land on this site at all.
func (m *Matcher) sitePath(href string) (string, bool) {
	if href == "" {
		return "", false
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}

	if u.Host != "" {
		if m.host == "" || !strings.EqualFold(u.Host, m.host) {
			return "", false
		}
	} else if !strings.HasPrefix(u.Path, "/") {
		// Relative references like "foo/bar" depend on the current document
		// and cannot be routed.
		return "", false
	}

	path := u.Path
	if m.basePath != "" {
		var found bool
		path, found = strings.CutPrefix(path, m.basePath)
		if !found {
			return "", false
		}
	}

	return path, true
}

// topicIDFromSegments matches the topic-show route variants:
// /t/:id, /t/:slug/:id and /t/:slug/:id/:post_number.
func topicIDFromSegments(segments []string) (int64, bool) {
	switch len(segments) {
	case 1:
		return parseID(segments[0])
	case 2:
		return parseID(segments[1])
	case 3:
		if _, ok := parseID(segments[2]); !ok {
			return 0, false
		}
		return parseID(segments[1])
	default:
		return 0, false
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func splitPath(path string) []string {
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
