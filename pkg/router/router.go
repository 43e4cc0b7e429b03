package router

import (
	"context"
	"net/http"

	"github.com/dayflow-labs/backend/pkg/xcontext"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// Router exposes domain operations as JSON-over-POST endpoints. Every request
// handler receives a context carrying the configs, logger, database handler
// and the authenticated user forwarded by the gateway.
type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context
}

func New(ctx context.Context) *Router {
	return &Router{mux: http.NewServeMux(), baseCtx: ctx}
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, handler))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

// requestContext merges the request-scoped values into the server base
// context. Authentication happens upstream, the gateway forwards the verified
// user in the X-User-Id header.
func (r *Router) requestContext(req *http.Request) context.Context {
	ctx := r.baseCtx
	if userID := req.Header.Get("X-User-Id"); userID != "" {
		ctx = xcontext.WithRequestUserID(ctx, userID)
	}

	return ctx
}
