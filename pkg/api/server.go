package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/acestep/studio/web"
	"github.com/gorilla/mux"
)

// NewRouter builds the studio router: API routes plus the embedded frontend.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()
	RegisterRoutes(router, d)

	staticFS := web.GetStaticFS()
	if staticFS != nil {
		router.PathPrefix("/").Handler(http.FileServer(http.FS(staticFS)))
	} else {
		router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Frontend assets missing from build", http.StatusInternalServerError)
		})
	}
	return router
}

// Serve runs the studio server until it fails.
func Serve(port int, d Deps) error {
	router := NewRouter(d)
	addr := fmt.Sprintf(":%d", port)

	fmt.Printf("\n")
	fmt.Printf("  🎵 ACE-Step Studio is running!\n")
	fmt.Printf("\n")
	fmt.Printf("  ➜  Local:   http://localhost:%d\n", port)
	fmt.Printf("\n")
	fmt.Printf("  Press Ctrl+C to stop\n")
	fmt.Printf("\n")

	log.Printf("[api] listening on %s", addr)
	return http.ListenAndServe(addr, router)
}
