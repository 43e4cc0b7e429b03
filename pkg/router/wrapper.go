package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		ctx := router.requestContext(r)

		var req Request
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeResponse(ctx, w, newErrorResponse(
					errorx.New(errorx.BadRequest, "Cannot parse the request body")))
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeResponse(ctx, w, newErrorResponse(err))
			return
		}

		writeResponse(ctx, w, newResponse(resp))
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}
