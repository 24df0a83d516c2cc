// Package site serves the embedded reference pages describing the report.
package site

import (
	"context"
	"net/http"
)

// Prefix is the mount point of the site.
const Prefix = "/docs/"

// Register attaches the embedded site under /docs/.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle(Prefix, http.StripPrefix(Prefix, http.FileServer(FS())))
	mux.Handle("/docs", http.RedirectHandler(Prefix, http.StatusMovedPermanently))
}
