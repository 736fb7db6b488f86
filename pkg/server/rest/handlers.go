package rest

import (
	"context"
	"errors"
	"net/http"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/pipeline"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// TraceService runs the trace-cleaning pipeline over one batch.
type TraceService interface {
	Run(ctx context.Context, regions []datastructure.Region, segments []datastructure.Segment) (*pipeline.Result, error)
}

type TraceHandler struct {
	svc     TraceService
	metrics *Metrics
}

func TraceRouter(r *chi.Mux, svc TraceService, m *Metrics) {
	handler := &TraceHandler{svc: svc, metrics: m}

	r.Group(func(r chi.Router) {
		r.Route("/api/trace", func(r chi.Router) {
			r.Post("/clean", handler.CleanTraces)
		})
	})
}

type Coord struct {
	Lat float64 `json:"lat" validate:"required,lt=90,gt=-90"`
	Lon float64 `json:"lon" validate:"required,lt=180,gt=-180"`
}

type RegionBody struct {
	RegionID  int64   `json:"region_id"`
	CenterLat float64 `json:"center_lat" validate:"required,lt=90,gt=-90"`
	CenterLon float64 `json:"center_lon" validate:"required,lt=180,gt=-180"`
}

type SegmentBody struct {
	SegmentID   string  `json:"segment_id" validate:"required"`
	RegionID    int64   `json:"region_id"`
	DurationSec float64 `json:"duration_sec"`
	Waypoints   []Coord `json:"waypoints" validate:"dive"`
}

type CleanTracesRequest struct {
	Regions  []RegionBody  `json:"regions" validate:"required,dive"`
	Segments []SegmentBody `json:"segments" validate:"required,dive"`
}

func (req *CleanTracesRequest) Bind(r *http.Request) error {
	if len(req.Segments) == 0 {
		return errors.New("invalid request: no segments")
	}
	return nil
}

type ChunkResponse struct {
	Coords      []Coord `json:"coords"`
	EncodedPath string  `json:"encoded_path"`
}

type CleanTracesResponse struct {
	Chunks         []ChunkResponse `json:"chunks"`
	Groups         [][]int         `json:"groups"` // chunk indices per island group
	Samples        []Coord         `json:"samples"`
	FailedSegments int             `json:"failed_segments"`
	BridgesBuilt   int             `json:"bridges_built"`
	ForcedSplits   int             `json:"forced_splits"`
}

func renderCleanTracesResponse(res *pipeline.Result) *CleanTracesResponse {
	chunksResp := make([]ChunkResponse, 0, len(res.Chunks))
	for _, chunk := range res.Chunks {
		coords := make([]Coord, 0, len(chunk))
		for _, c := range chunk {
			coords = append(coords, Coord{Lat: c.Lat, Lon: c.Lon})
		}
		chunksResp = append(chunksResp, ChunkResponse{
			Coords:      coords,
			EncodedPath: datastructure.RenderPath(chunk),
		})
	}

	// Groups reference the chunk slices themselves, so recover indices by
	// matching the backing arrays.
	groupsResp := make([][]int, 0, len(res.Groups))
	for _, group := range res.Groups {
		indices := make([]int, 0, len(group))
		for _, chunk := range group {
			for i, orig := range res.Chunks {
				if len(orig) > 0 && len(chunk) > 0 && &orig[0] == &chunk[0] {
					indices = append(indices, i)
					break
				}
			}
		}
		groupsResp = append(groupsResp, indices)
	}

	samplesResp := make([]Coord, 0, len(res.Samples))
	for _, s := range res.Samples {
		samplesResp = append(samplesResp, Coord{Lat: s.Lat, Lon: s.Lon})
	}

	return &CleanTracesResponse{
		Chunks:         chunksResp,
		Groups:         groupsResp,
		Samples:        samplesResp,
		FailedSegments: res.FailedSegments,
		BridgesBuilt:   res.BridgesBuilt,
		ForcedSplits:   res.ForcedSplits,
	}
}

// CleanTraces runs map matching with recovery over the posted segments and
// returns chunks, proximity groups and uniform arc-length samples.
func (h *TraceHandler) CleanTraces(w http.ResponseWriter, r *http.Request) {
	data := &CleanTracesRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	validate := validator.New()
	if err := validate.Struct(*data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		vv := translateError(err, trans)
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	regions := make([]datastructure.Region, 0, len(data.Regions))
	for _, reg := range data.Regions {
		regions = append(regions, datastructure.Region{
			ID:        reg.RegionID,
			CenterLat: reg.CenterLat,
			CenterLon: reg.CenterLon,
		})
	}
	segments := make([]datastructure.Segment, 0, len(data.Segments))
	for _, seg := range data.Segments {
		waypoints := make(datastructure.Polyline, 0, len(seg.Waypoints))
		for _, wp := range seg.Waypoints {
			waypoints = append(waypoints, datastructure.NewCoordinate(wp.Lat, wp.Lon))
		}
		segments = append(segments, datastructure.Segment{
			ID:          seg.SegmentID,
			RegionID:    seg.RegionID,
			Waypoints:   waypoints,
			DurationSec: seg.DurationSec,
		})
	}

	res, err := h.svc.Run(r.Context(), regions, segments)
	if err != nil {
		render.Render(w, r, ErrInternalServerErrorRend(errors.New("internal server error")))
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveRun(len(segments), res.FailedSegments, len(res.Chunks))
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, renderCleanTracesResponse(res))
}
