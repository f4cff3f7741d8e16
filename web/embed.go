// Package web embeds the browser frontend: page templates and static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the static assets rooted at static/.
func StaticFS() fs.FS {
	return mustSub("static")
}

// TemplatesFS returns the page templates rooted at templates/.
func TemplatesFS() fs.FS {
	return mustSub("templates")
}

// mustSub panics only if dir is not a valid path, which the embed directive
// above rules out.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
