package assets

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeFromExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".js", "application/javascript"},
		{".mjs", "application/javascript"},
		{".jsx", "text/babel; charset=utf-8"},
		{".css", "text/css; charset=utf-8"},
		{".woff2", "font/woff2"},
		{".svg", "image/svg+xml"},
		{".qqqqqq", "application/octet-stream"},
	}
	for _, tt := range tests {
		if got := mimeFromExt(tt.ext); got != tt.want {
			t.Errorf("mimeFromExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	a := fstest.MapFS{"static/a.js": {Data: []byte("one")}}
	b := fstest.MapFS{"static/a.js": {Data: []byte("two")}}

	da, err := digest(a)
	require.NoError(t, err)
	db, err := digest(b)
	require.NoError(t, err)

	assert.Len(t, da, 12)
	assert.NotEqual(t, da, db)

	again, err := digest(a)
	require.NoError(t, err)
	assert.Equal(t, da, again)
}

func TestVersionComputed(t *testing.T) {
	assert.Len(t, Version, 12)
}

func TestScriptTags(t *testing.T) {
	got := string(ScriptTags("interface"))

	assert.Contains(t, got, `<link rel="stylesheet" href="/static/chailab.css?v=`+Version+`">`)
	assert.Contains(t, got, `<script src="/static/common.js?v=`+Version+`"></script>`)
	assert.Contains(t, got, `<script type="text/babel" data-presets="react" src="/static/interface.jsx?v=`+Version+`"></script>`)
	for _, v := range Vendor {
		assert.Contains(t, got, v)
	}

	// Vendor scripts load before the JSX that needs them.
	assert.Less(t, strings.Index(got, "react-dom"), strings.Index(got, "interface.jsx"))
}

func TestScriptTags_UnknownEntry(t *testing.T) {
	assert.Empty(t, ScriptTags("nope"))
}

func TestScriptTags_CustomBundle(t *testing.T) {
	orig := Bundles
	defer func() { Bundles = orig }()

	Bundles = map[string]Bundle{"x": {Scripts: []string{"x.js"}}}
	got := string(ScriptTags("x"))
	assert.Contains(t, got, "/static/x.js")
	assert.NotContains(t, got, "stylesheet")
}

func TestFileServer(t *testing.T) {
	srv := http.StripPrefix("/static/", FileServer())

	t.Run("versioned request is immutable", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, URL("chailab.css"), nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
		body, _ := io.ReadAll(rec.Body)
		assert.Contains(t, string(body), "--background")
	})

	t.Run("unversioned request is no-cache", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/chat.jsx", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
		assert.Equal(t, "text/babel; charset=utf-8", rec.Header().Get("Content-Type"))
	})

	t.Run("stale version is no-cache", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/common.js?v=old", nil))
		assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	})

	t.Run("missing file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
