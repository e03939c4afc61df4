// Package server binds an ephemeral static file server so that
// filesystem seeds can be crawled the same way HTTP seeds are: through
// real HTTP requests against a real origin (spec §4.5, component 5).
//
// Grounded on the teacher-adjacent TheSnook-polyester's
// cmd/server/server.go http.FileServer(http.Dir(...)) pattern — the
// one static-serving reference in the pack — generalized from a
// fixed, flag-configured port to an OS-chosen ephemeral port (spec:
// "binds ... on an OS-chosen ephemeral port") and from
// unconditional directory listing to the directoryListing-gated,
// HTML-escaped index this spec requires.
package server

import (
	"context"
	"html/template"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Server serves root over HTTP on an OS-chosen loopback port.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
}

// Start binds the server and begins serving in the background. The
// caller must call Shutdown to release the port.
func Start(root string, directoryListing bool) (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	httpServer := &http.Server{Handler: newHandler(root, directoryListing)}

	s := &Server{httpServer: httpServer, listener: listener}
	go httpServer.Serve(listener)
	return s, nil
}

// Origin is the synthetic HTTP origin the engine rewrites filesystem
// seeds onto (spec §4.5: "expose syntheticServerRoot").
func (s *Server) Origin() string {
	return "http://" + s.listener.Addr().String()
}

// Shutdown tears the server down deterministically, forcibly closing
// any keep-alive connections rather than waiting on them (spec §4.5).
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	s.httpServer.Close()
	return nil
}

func newHandler(root string, directoryListing bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleaned := path.Clean(r.URL.Path)
		full := filepath.Join(root, filepath.FromSlash(cleaned))

		info, err := os.Stat(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		if info.IsDir() {
			if !directoryListing {
				http.NotFound(w, r)
				return
			}
			serveIndex(w, full, cleaned)
			return
		}

		// ServeContent rather than ServeFile: ServeFile redirects any
		// path ending in /index.html to its directory, which would turn
		// a link to an existing index.html into a directory request.
		f, err := os.Open(full)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	})
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html><head><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
<ul>
{{range .Entries}}<li><a href="{{.Href}}">{{.Name}}</a></li>
{{end}}</ul>
</body></html>
`))

type indexEntry struct {
	Name string
	Href string
}

func serveIndex(w http.ResponseWriter, dirPath, urlPath string) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		http.Error(w, "failed to read directory", http.StatusInternalServerError)
		return
	}

	items := make([]indexEntry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		items = append(items, indexEntry{Name: name, Href: name})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = indexTemplate.Execute(w, struct {
		Path    string
		Entries []indexEntry
	}{Path: urlPath, Entries: items})
}
