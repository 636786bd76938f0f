package handlers

import (
	"net/http"
	"strings"

	"github.com/jinzhu/inflection"
)

// Wrapper decorates a route handler.
type Wrapper func(http.HandlerFunc) http.HandlerFunc

// RouteMiddleware holds the wrappers handlers apply when registering routes.
type RouteMiddleware struct {
	// Public routes get a database scope but no authentication.
	Public Wrapper
	// Protected routes require a resolved user.
	Protected Wrapper
	// Manager routes require a user with the manager role.
	Manager Wrapper
}

// resource names a REST collection and derives its messages.
type resource struct {
	// Path is the plural collection segment, e.g. "publications".
	Path string
	// Entity is the singular display name, e.g. "Publication".
	Entity string
}

func newResource(path string) resource {
	singular := inflection.Singular(path)
	return resource{
		Path:   path,
		Entity: strings.ToUpper(singular[:1]) + singular[1:],
	}
}

// deletedMessage is the body returned by every delete endpoint.
func (r resource) deletedMessage() MessageResponse {
	return MessageResponse{Message: r.Entity + " deleted successfully"}
}

// handleCollection registers pattern for both "/x" and "/x/" so clients may
// use either form for collection endpoints.
func handleCollection(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	path = strings.TrimSuffix(path, "/")
	mux.HandleFunc(method+" "+path, h)
	mux.HandleFunc(method+" "+path+"/{$}", h)
}

// singular is the lowercase entity name used in log and error messages.
func (r resource) singular() string {
	return strings.ToLower(r.Entity)
}
