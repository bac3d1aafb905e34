// Package assets serves the browser client embedded via go:embed.
// Pages reference bundles by entry name; URLs carry a content version so the
// file server can hand out long-lived cache headers.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"sort"
	"strings"
)

//go:embed static
var staticFS embed.FS

// Bundle lists the files a page entry needs, relative to static/.
type Bundle struct {
	Styles  []string
	Scripts []string
	// JSX scripts are compiled in the browser by Babel standalone.
	JSX []string
}

// Vendor scripts are loaded from a CDN ahead of every bundle.
var Vendor = []string{
	"https://unpkg.com/react@18/umd/react.production.min.js",
	"https://unpkg.com/react-dom@18/umd/react-dom.production.min.js",
	"https://unpkg.com/@babel/standalone/babel.min.js",
}

// Bundles maps page entries to their files.
// NOTE: Exported and mutable for testability. Tests that modify this must
// not use t.Parallel().
var Bundles = map[string]Bundle{
	"interface": {
		Styles:  []string{"chailab.css"},
		Scripts: []string{"common.js"},
		JSX:     []string{"interface.jsx"},
	},
	"chat": {
		Styles:  []string{"chailab.css"},
		Scripts: []string{"common.js"},
		JSX:     []string{"chat.jsx"},
	},
}

// Version is a short digest over every embedded file.
var Version string

func init() {
	// Register MIME types that may not be in the default database.
	_ = mime.AddExtensionType(".jsx", "text/babel")
	_ = mime.AddExtensionType(".woff2", "font/woff2")

	v, err := digest(staticFS)
	if err != nil {
		slog.Error("failed to fingerprint embedded assets", "error", err)
		return
	}
	Version = v
}

// digest hashes file names and contents in sorted order.
func digest(fsys fs.FS) (string, error) {
	var names []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", err
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil))[:12], nil
}

// isVersioned reports whether the request asks for the current build.
func isVersioned(r *http.Request) bool {
	return Version != "" && r.URL.Query().Get("v") == Version
}

// mimeFromExt returns the MIME type for a file extension.
// Falls back to the Go standard library's MIME type database,
// then to "application/octet-stream" if unknown.
func mimeFromExt(ext string) string {
	switch ext {
	case ".js", ".mjs":
		return "application/javascript"
	case ".jsx":
		return "text/babel; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".woff2":
		return "font/woff2"
	case ".svg":
		return "image/svg+xml"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// ScriptTags generates the HTML tags for a page entry: stylesheet links,
// vendor scripts, local scripts, then the Babel-compiled JSX sources.
// Unknown entries produce no tags.
func ScriptTags(entry string) template.HTML {
	e, ok := Bundles[entry]
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, css := range e.Styles {
		b.WriteString(`<link rel="stylesheet" href="`)
		b.WriteString(URL(css))
		b.WriteString("\">\n")
	}
	for _, src := range Vendor {
		b.WriteString(`<script crossorigin src="`)
		b.WriteString(src)
		b.WriteString("\"></script>\n")
	}
	for _, js := range e.Scripts {
		b.WriteString(`<script src="`)
		b.WriteString(URL(js))
		b.WriteString("\"></script>\n")
	}
	for _, jsx := range e.JSX {
		b.WriteString(`<script type="text/babel" data-presets="react" src="`)
		b.WriteString(URL(jsx))
		b.WriteString("\"></script>\n")
	}
	return template.HTML(b.String())
}

// URL returns the versioned /static/ URL for a file under static/.
func URL(name string) string {
	u := "/static/" + strings.TrimPrefix(name, "/")
	if Version != "" {
		u += "?v=" + Version
	}
	return u
}

// FileServer returns an http.Handler that serves embedded assets from static/.
// Requests carrying the current version get immutable cache headers; anything
// else gets no-cache. The handler expects paths relative to the static root
// (strip /static/ before calling).
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ext := strings.ToLower(path.Ext(r.URL.Path))
		if ext != "" {
			w.Header().Set("Content-Type", mimeFromExt(ext))
		}

		if isVersioned(r) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
