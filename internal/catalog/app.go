package catalog

import (
	"net/http"

	"RocketShoes/pkg/kit"
)

type HTTPDeps = kit.RouterDeps

// NewHandler serves the products and stock read API the cart consults.
func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := kit.NewRouter(deps)
	r.Mount("/", s.Routes())
	return r
}
