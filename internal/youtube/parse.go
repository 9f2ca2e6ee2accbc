// Package youtube turns the stream-source input into a video id and looks
// up the video's title for the stream control screen.
package youtube

import (
	"net/url"
	"regexp"
	"strings"

	"welux-admin/internal/domain"
)

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID accepts a bare 11-character id or a watch, youtu.be, live,
// embed or shorts URL.
func ParseVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if idRe.MatchString(s) {
		return s, nil
	}

	if !strings.Contains(s, "://") && strings.Contains(s, "youtu") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", invalid()
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segs[0]
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
		} else if len(segs) >= 2 {
			switch segs[0] {
			case "live", "embed", "shorts", "v":
				id = segs[1]
			}
		}
	}

	if !idRe.MatchString(id) {
		return "", invalid()
	}
	return id, nil
}

func invalid() error {
	return &domain.ValidationError{
		Title:  "Invalid source",
		Fields: []string{"video_id"},
		Msg:    "Enter a YouTube video ID or a full YouTube URL.",
	}
}

// WatchURL is the canonical page for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
