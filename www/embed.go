package www

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var assets embed.FS

func templateFS() fs.FS {
	sub, _ := fs.Sub(assets, "templates")
	return sub
}

// StaticFS exposes the embedded JS/CSS for the file server.
func StaticFS() fs.FS {
	sub, _ := fs.Sub(assets, "static")
	return sub
}
