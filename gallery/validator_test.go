package gallery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidFilename(t *testing.T) {
	v := NewValidator(NewHttpClient())

	assert.True(t, v.ValidFilename("cat.png"))
	assert.True(t, v.ValidFilename("CAT.PNG"))
	assert.True(t, v.ValidFilename("screen shot.JPeG"))
	assert.True(t, v.ValidFilename("archive.tiff"))

	assert.False(t, v.ValidFilename("cat.txt"))
	assert.False(t, v.ValidFilename("cat"))
	assert.False(t, v.ValidFilename("cat.png.exe"))
	assert.False(t, v.ValidFilename(""))
}

func TestMatchesImageURL(t *testing.T) {
	v := NewValidator(NewHttpClient())

	assert.True(t, v.MatchesImageURL("http://example.com/a.png"))
	assert.True(t, v.MatchesImageURL("https://example.com/photos/A.JPG"))
	assert.True(t, v.MatchesImageURL("https://example.com/a.gif"))

	assert.False(t, v.MatchesImageURL("http://example.com/file.txt"))
	assert.False(t, v.MatchesImageURL("ftp://example.com/a.png"))
	assert.False(t, v.MatchesImageURL("http://example.com/a.png and more"))
	assert.False(t, v.MatchesImageURL("just some words"))
}

func TestValidImageURL(t *testing.T) {
	probes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes++
		switch r.URL.Path {
		case "/good.png":
			w.Header().Set("Content-Type", "image/png")
		case "/pretender.png":
			w.Header().Set("Content-Type", "text/html")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	v := NewValidator(NewHttpClient())
	ctx := context.Background()

	require.True(t, v.ValidImageURL(ctx, server.URL+"/good.png"))
	require.False(t, v.ValidImageURL(ctx, server.URL+"/pretender.png"))
	require.False(t, v.ValidImageURL(ctx, server.URL+"/missing.png"))

	// A URL that is not even image-shaped must be rejected without a probe.
	probes = 0
	require.False(t, v.ValidImageURL(ctx, server.URL+"/file.txt"))
	require.Equal(t, 0, probes)
}

func TestValidImageURLNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
	}))
	url := server.URL + "/gone.png"
	server.Close()

	v := NewValidator(NewHttpClient())
	require.False(t, v.ValidImageURL(context.Background(), url))
}
