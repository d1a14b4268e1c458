// Package web embeds the chat page template and its static assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var files embed.FS

// Templates holds the HTML templates, rooted at the templates directory.
func Templates() fs.FS {
	sub, _ := fs.Sub(files, "templates")
	return sub
}

// Static holds css and js served under /static/.
func Static() fs.FS {
	sub, _ := fs.Sub(files, "static")
	return sub
}
