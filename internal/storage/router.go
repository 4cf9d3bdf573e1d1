package storage

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// Router dispatches each reference to the fetcher registered for its
// scheme. References without a registered scheme go to the local fetcher.
type Router struct {
	local   ImageFetcher
	schemes map[string]ImageFetcher
}

// NewRouter creates a router falling back to local
func NewRouter(local ImageFetcher) *Router {
	return &Router{
		local:   local,
		schemes: make(map[string]ImageFetcher),
	}
}

// Register routes scheme:// references to fetcher
func (r *Router) Register(scheme string, fetcher ImageFetcher) {
	r.schemes[strings.ToLower(scheme)] = fetcher
}

// Scheme returns the lower-cased scheme of ref, or "" when it has none.
func Scheme(ref string) string {
	i := strings.Index(ref, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(ref[:i])
}

func (r *Router) FetchImage(ctx context.Context, ref string) (image.Image, error) {
	scheme := Scheme(ref)
	if scheme == "" || scheme == "file" {
		return r.local.FetchImage(ctx, ref)
	}
	fetcher, ok := r.schemes[scheme]
	if !ok {
		return nil, fmt.Errorf("no image source registered for scheme %q", scheme)
	}
	return fetcher.FetchImage(ctx, ref)
}
