// Package web embeds the server-rendered page templates and static assets.
//
// Usage in the API server:
//
//	pages, err := web.LoadPages()
//	static := web.StaticFS() // io/fs.FS rooted at static/
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed all:static
var staticFiles embed.FS

// StaticFS returns a filesystem rooted at the embedded static/ directory.
// This is ready to use with http.FileServerFS. It panics if the embed is
// missing, which only a broken build can cause.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("web: static assets not embedded: " + err.Error())
	}
	return sub
}
