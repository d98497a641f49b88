package media

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Kind classifies a stream source.
type Kind string

const (
	KindLocal   Kind = "local"
	KindYouTube Kind = "youtube"
	KindURL     Kind = "url"
)

// Source identifies one side of a synchronized pair.
type Source struct {
	Kind Kind   `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Signature returns the stable key for s, or "" when s cannot be identified.
func (s Source) Signature() string {
	switch s.Kind {
	case KindYouTube:
		return YouTubeSignature(s.ID)
	case KindURL:
		if strings.TrimSpace(s.URL) == "" {
			return ""
		}
		return URLSignature(s.URL)
	case KindLocal:
		return s.ID
	default:
		return ""
	}
}

// Title returns a human readable label for s.
func (s Source) Title() string {
	if name := strings.TrimSpace(s.Name); name != "" {
		return name
	}
	switch s.Kind {
	case KindYouTube:
		return "YouTube " + s.ID
	case KindURL:
		return s.URL
	default:
		return s.ID
	}
}

// LocalSignature keys a local file by name, size and modification time.
func LocalSignature(name string, size int64, modTime time.Time) string {
	return "file:" + norm.NFC.String(name) + "|" + strconv.FormatInt(size, 10) + "|" + strconv.FormatInt(modTime.UnixMilli(), 10)
}

// YouTubeSignature keys a YouTube video id. An empty id yields "".
func YouTubeSignature(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	return "yt:" + id
}

// URLSignature keys a remote stream by its normalized URL.
func URLSignature(raw string) string {
	return "url:" + NormalizeURL(raw)
}

var youTubeIDPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// ParseYouTubeID extracts the 11 character video id from common YouTube URL shapes.
func ParseYouTubeID(raw string) (string, bool) {
	m := youTubeIDPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(m) < 3 || len(m[2]) != 11 {
		return "", false
	}
	return m[2], true
}

// NormalizeURL lowercases the scheme and host and drops the fragment. Inputs
// that do not parse as absolute URLs are returned trimmed.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return trimmed
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// SourceFromPath stats a local file and builds its Source.
func SourceFromPath(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, fmt.Errorf("stat media file: %w", err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("media path %q is a directory", path)
	}
	name := filepath.Base(path)
	return Source{
		Kind: KindLocal,
		ID:   LocalSignature(name, info.Size(), info.ModTime()),
		Name: DisplayTitle(name),
	}, nil
}

// SourceFromInput classifies a user supplied reference: a YouTube link, an
// http(s) URL, or a local file path.
func SourceFromInput(input string) (Source, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Source{}, errors.New("media reference is empty")
	}
	if id, ok := ParseYouTubeID(trimmed); ok {
		return Source{Kind: KindYouTube, ID: id, URL: trimmed}, nil
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		normalized := NormalizeURL(trimmed)
		return Source{Kind: KindURL, ID: URLSignature(trimmed), URL: normalized}, nil
	}
	return SourceFromPath(trimmed)
}

var titleSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// DisplayTitle turns a file name into a title-cased label without its extension.
func DisplayTitle(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	stem = strings.Join(strings.Fields(titleSeparators.Replace(norm.NFC.String(stem))), " ")
	if stem == "" {
		return name
	}
	return cases.Title(language.Und).String(stem)
}
