// Package web embeds the browser front-end for the activities service.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the front-end assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(err)
	}
	return sub
}
