package media

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// SourceKind says where the speech sample comes from. It is decided once per
// request and drives which acquisition strategy runs.
type SourceKind int

const (
	SourceUpload SourceKind = iota
	SourceGenericURL
	SourceYouTubeURL
)

func (k SourceKind) String() string {
	switch k {
	case SourceUpload:
		return "upload"
	case SourceGenericURL:
		return "generic_url"
	case SourceYouTubeURL:
		return "youtube"
	default:
		return "unknown"
	}
}

// Source describes one speech sample. Upload sources carry Filename and Body,
// URL sources carry URL.
type Source struct {
	Kind     SourceKind
	URL      string
	Filename string
	Body     io.Reader
}

var ErrInvalidURL = errors.New("invalid url")

// UploadSource wraps uploaded bytes.
func UploadSource(filename string, body io.Reader) Source {
	return Source{Kind: SourceUpload, Filename: filename, Body: body}
}

// ParseURLSource validates raw and classifies it by host.
func ParseURLSource(raw string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, fmt.Errorf("%w: url is empty", ErrInvalidURL)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return Source{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return Source{}, fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	kind := SourceGenericURL
	if IsYouTubeHost(u.Host) {
		kind = SourceYouTubeURL
	}
	return Source{Kind: kind, URL: raw}, nil
}

// IsYouTubeHost matches youtube.com, youtu.be and their subdomains
// (www., m., music.) by substring, the same way yt-dlp users paste them.
func IsYouTubeHost(host string) bool {
	host = strings.ToLower(host)
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}
