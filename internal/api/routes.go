// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-crash/internal/host"
	"github.com/joeblew999/plat-crash/internal/panel"
	"github.com/joeblew999/plat-crash/internal/surface/web"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Panel    *panel.Panel
	Provider *host.Provider
	Web      *web.Surface
}

// Types

type DatasetInput struct {
	Name string `path:"name" doc:"Dataset file name" example:"crashes_2024.csv"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

type MessageBody struct {
	Message string `json:"message" doc:"Result message"`
}

type StateBody struct {
	Snapshot web.Snapshot        `json:"snapshot" doc:"Current drawable map state"`
	Last     panel.ApplyResult   `json:"last" doc:"Result of the most recent reconciliation"`
	Legend   []panel.LegendEntry `json:"legend" doc:"Choropleth legend entries"`
}

// APIHandler holds all REST API handlers.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterPanel registers panel state and update routes.
func (h *APIHandler) RegisterPanel(api huma.API) {
	huma.Get(api, "/api/v1/panel/state", h.GetState, huma.OperationTags("panel"))
	huma.Post(api, "/api/v1/panel/update", h.PushUpdate, huma.OperationTags("panel"))
}

// RegisterSettings registers settings routes.
func (h *APIHandler) RegisterSettings(api huma.API) {
	huma.Get(api, "/api/v1/settings", h.GetSettings, huma.OperationTags("settings"))
	huma.Put(api, "/api/v1/settings", h.PutSettings, huma.OperationTags("settings"))
}

// RegisterDatasets registers dataset listing and loading routes.
func (h *APIHandler) RegisterDatasets(api huma.API) {
	huma.Get(api, "/api/v1/datasets", h.GetDatasets, huma.OperationTags("datasets"))
	huma.Post(api, "/api/v1/datasets/{name}/load", h.LoadDataset, huma.OperationTags("datasets"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetState(ctx context.Context, input *struct{}) (*struct{ Body StateBody }, error) {
	return &struct{ Body StateBody }{Body: StateBody{
		Snapshot: h.svc.Web.Snapshot(),
		Last:     h.svc.Panel.Last(),
		Legend:   panel.Legend(panel.ChoroplethPalette),
	}}, nil
}

// PushUpdate accepts a host update event. The dataset is handed to the
// scheduler and the call returns immediately; debouncing decides when
// the cycle actually runs.
func (h *APIHandler) PushUpdate(ctx context.Context, input *struct{ Body panel.DataView }) (*struct{ Body MessageBody }, error) {
	h.svc.Panel.Update(input.Body)
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Update scheduled"}}, nil
}

func (h *APIHandler) GetSettings(ctx context.Context, input *struct{}) (*struct{ Body host.Settings }, error) {
	return &struct{ Body host.Settings }{Body: h.svc.Provider.Settings()}, nil
}

func (h *APIHandler) PutSettings(ctx context.Context, input *struct{ Body host.Settings }) (*struct{ Body host.Settings }, error) {
	if err := h.svc.Provider.UpdateSettings(ctx, input.Body); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &struct{ Body host.Settings }{Body: h.svc.Provider.Settings()}, nil
}

func (h *APIHandler) GetDatasets(ctx context.Context, input *struct{}) (*struct{ Body []host.SourceFile }, error) {
	files, err := h.svc.Provider.List()
	if err != nil {
		return &struct{ Body []host.SourceFile }{Body: []host.SourceFile{}}, nil
	}
	return &struct{ Body []host.SourceFile }{Body: files}, nil
}

func (h *APIHandler) LoadDataset(ctx context.Context, input *DatasetInput) (*struct{ Body MessageBody }, error) {
	if err := h.svc.Provider.Load(ctx, input.Name); err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}
	return &struct{ Body MessageBody }{Body: MessageBody{Message: "Dataset loaded: " + input.Name}}, nil
}
