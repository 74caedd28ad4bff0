// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"net/url"
	"strings"
)

const youTubeEmbedBase = "https://www.youtube.com/embed/"

// EmbedURL turns a video share link into an embeddable player URL.
// Accepted shapes are youtu.be short links, youtube.com watch, shorts and
// live links, and embed links (returned unchanged). Any other input,
// including unparsable strings, is returned as given.
func EmbedURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/embed/"):
			// Already embeddable; keep player parameters such as start.
			return raw
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/shorts"))
		case strings.HasPrefix(u.Path, "/live/"):
			id = firstSegment(strings.TrimPrefix(u.Path, "/live"))
		}
	}

	if !validVideoID(id) {
		return raw
	}
	return youTubeEmbedBase + id
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}

// validVideoID accepts the URL-safe base64 alphabet YouTube ids use.
func validVideoID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
