package gallery

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/creepcomp/gallerybot/utils"
)

var (
	// The fixed set of acceptable image filename extensions.
	imageExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "tiff"}

	imageURLPattern = regexp.MustCompile(`(?i)^https?://.*\.(jpg|jpeg|png|gif|bmp|tiff)$`)
)

// Validator decides whether a candidate attachment or URL is an acceptable
// image source. Attachment checks are purely syntactic; URL checks
// additionally probe the remote resource and fail closed on any network
// error.
type Validator struct {
	http *HttpClient
}

func NewValidator(client *HttpClient) *Validator {
	return &Validator{http: client}
}

// ValidFilename accepts a filename iff its extension is whitelisted,
// case-insensitively. No network call is made.
func (v *Validator) ValidFilename(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return utils.ContainsString(imageExtensions, ext)
}

// MatchesImageURL reports whether the text is shaped like a direct image
// link. It does not probe the target.
func (v *Validator) MatchesImageURL(text string) bool {
	return imageURLPattern.MatchString(text)
}

// ValidImageURL accepts a URL iff it is shaped like an image link and a
// single bounded HEAD probe confirms the resource exists and serves an image
// content type. Any network error or mismatch rejects the URL; there is no
// retry.
func (v *Validator) ValidImageURL(ctx context.Context, url string) bool {
	if !v.MatchesImageURL(url) {
		return false
	}
	res, err := v.http.Head(ctx, url)
	if err != nil {
		return false
	}
	return strings.Contains(res.Header.Get("Content-Type"), "image")
}
