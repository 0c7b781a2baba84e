package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// InfoHandler reports what this panel instance can do: whether the
// DuckDB source is up, and how many county boundaries were loaded.
type InfoHandler struct {
	dataDir  string
	regions  int
	sourceOK bool
}

func NewInfoHandler(dataDir string, regions int, sourceOK bool) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, regions: regions, sourceOK: sourceOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name        string `json:"name" doc:"Service name"`
	Version     string `json:"version" doc:"Service version"`
	DataDir     string `json:"data_dir" doc:"Data directory path"`
	Regions     int    `json:"regions" doc:"County boundaries in the reference dataset"`
	CrashSource bool   `json:"crash_source" doc:"Whether the DuckDB crash source is available"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:        "plat-crash",
		Version:     "0.1.0",
		DataDir:     h.dataDir,
		Regions:     h.regions,
		CrashSource: h.sourceOK,
	}}, nil
}
