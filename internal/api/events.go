package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/joeblew999/plat-crash/internal/surface/web"
)

// EventHandler streams panel state to the browser via Datastar SSE.
type EventHandler struct {
	web *web.Surface
}

// NewEventHandler creates a new event handler.
func NewEventHandler(webSurface *web.Surface) *EventHandler {
	return &EventHandler{web: webSurface}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/panel/events", h.Events,
		huma.OperationTags("panel"),
	)
}

// Events holds the connection open and pushes a snapshot signal patch
// on connect and after every reconciliation.
func (h *EventHandler) Events(ctx context.Context, input *struct{}) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			r, w := humago.Unwrap(humaCtx)
			sse := datastar.NewSSE(w, r)
			_ = h.web.Stream(ctx, sse)
		},
	}, nil
}
