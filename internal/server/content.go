package server

import (
	"net/http"
	"path"
	"strings"
)

// publicExtensions are the file types the site loads from the content root.
var publicExtensions = map[string]bool{
	".md":   true,
	".json": true,
	".txt":  true,
	".mp4":  true,
	".webm": true,
	".vtt":  true,
	".css":  true,
	".js":   true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
	".ico":  true,
}

// contentHandler serves lesson assets from dir. Directory listings, dotfiles
// and any other file type under the root (the config file among them) are 404.
func contentHandler(dir string) http.Handler {
	files := http.StripPrefix(ContentPrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isPublicContent(strings.TrimPrefix(r.URL.Path, ContentPrefix)) {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

func isPublicContent(rel string) bool {
	if rel == "" || strings.HasSuffix(rel, "/") {
		return false
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+rel), "/")
	for _, segment := range strings.Split(cleaned, "/") {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}
	if strings.HasSuffix(cleaned, ".timings.yml") {
		return true
	}
	return publicExtensions[strings.ToLower(path.Ext(cleaned))]
}
