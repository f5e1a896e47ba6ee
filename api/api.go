package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/calvinmclean/plantchart"

	"github.com/calvinmclean/babyapi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"
)

const maxUploadSize = 64 << 20

// API serves one dashboard session over HTTP
type API struct {
	session *plantchart.Session
	router  chi.Router
	now     func() time.Time
}

// New creates the API and its routes
func New(session *plantchart.Session) *API {
	a := &API{
		session: session,
		router:  chi.NewRouter(),
		now:     time.Now,
	}

	a.router.Use(logRequest)

	a.router.Get("/", a.dashboard)
	a.router.Get("/chart", a.renderChart)
	a.router.Get("/export.png", a.exportPNG)
	a.router.Get("/state", babyapi.Handler(a.getState))

	a.router.Post("/upload", babyapi.Handler(a.upload))
	a.router.Post("/view/preset", babyapi.Handler(a.zoomPreset))
	a.router.Post("/view/range", babyapi.Handler(a.applyRange))
	a.router.Post("/view/wheel", babyapi.Handler(a.wheelStep))
	a.router.Post("/view/window", babyapi.Handler(a.setWindow))
	a.router.Post("/click", babyapi.Handler(a.click))
	a.router.Post("/measure/toggle", babyapi.Handler(a.toggleMeasure))
	a.router.Put("/threshold", babyapi.Handler(a.setThreshold))
	a.router.Post("/legend/{series}/toggle", babyapi.Handler(a.toggleSeries))
	a.router.Put("/kpi/selectable", babyapi.Handler(a.setSelectable))
	a.router.Post("/reset", babyapi.Handler(a.reset))

	return a
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func logRequest(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Msg("request")
		handler.ServeHTTP(w, r)
	})
}

// stateResponse is the JSON body returned by every mutating route
type stateResponse struct {
	plantchart.State
	Result string `json:"result,omitempty"`
}

func (stateResponse) Render(http.ResponseWriter, *http.Request) error {
	return nil
}

func (a *API) respond(result string) render.Renderer {
	return stateResponse{State: a.session.State(), Result: result}
}

func (a *API) getState(_ http.ResponseWriter, _ *http.Request) render.Renderer {
	return a.respond("")
}

func (a *API) upload(_ http.ResponseWriter, r *http.Request) render.Renderer {
	body, source, err := uploadBody(r)
	if err != nil {
		return babyapi.ErrInvalidRequest(err)
	}
	defer body.Close()

	report, err := a.session.Load(body, source)
	switch {
	case errors.Is(err, plantchart.ErrStaleLoad):
		return conflict(err)
	case err != nil:
		return babyapi.ErrInvalidRequest(err)
	}

	return stateResponse{
		State:  a.session.State(),
		Result: fmt.Sprintf("loaded %d of %d rows", report.Kept, report.Rows),
	}
}

// uploadBody accepts either a text/csv body or a multipart form with a "file"
// field
func uploadBody(r *http.Request) (io.ReadCloser, string, error) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, "", fmt.Errorf("unexpected Content-Type: %w", err)
	}

	switch contentType {
	case "text/csv", "text/plain":
		return http.MaxBytesReader(nil, r.Body, maxUploadSize), "upload.csv", nil
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			return nil, "", fmt.Errorf("error parsing form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("error reading file field: %w", err)
		}
		return file, header.Filename, nil
	}
	return nil, "", fmt.Errorf("unexpected Content-Type: %s", contentType)
}

func (a *API) zoomPreset(_ http.ResponseWriter, r *http.Request) render.Renderer {
	err := a.session.ZoomPreset(r.URL.Query().Get("token"))
	if err != nil {
		return viewError(err)
	}
	return a.respond("")
}

func (a *API) applyRange(_ http.ResponseWriter, r *http.Request) render.Renderer {
	loc := a.session.Config().Location

	start, err := time.ParseInLocation(time.DateOnly, r.URL.Query().Get("start"), loc)
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing start date: %w", err))
	}

	var end *time.Time
	if endParam := r.URL.Query().Get("end"); endParam != "" {
		e, err := time.ParseInLocation(time.DateOnly, endParam, loc)
		if err != nil {
			return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing end date: %w", err))
		}
		end = &e
	}

	err = a.session.ApplyRange(start, end)
	if err != nil {
		return viewError(err)
	}
	return a.respond("")
}

func (a *API) wheelStep(_ http.ResponseWriter, r *http.Request) render.Renderer {
	direction, err := strconv.Atoi(r.URL.Query().Get("direction"))
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing direction: %w", err))
	}

	moved, err := a.session.WheelStep(direction)
	if err != nil {
		return viewError(err)
	}
	if !moved {
		return a.respond("rejected")
	}
	return a.respond("moved")
}

func (a *API) setWindow(_ http.ResponseWriter, r *http.Request) render.Renderer {
	minT, err := parseInstant(r.URL.Query().Get("min"))
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing min: %w", err))
	}
	maxT, err := parseInstant(r.URL.Query().Get("max"))
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing max: %w", err))
	}

	err = a.session.SetWindow(minT, maxT)
	if err != nil {
		return viewError(err)
	}
	return a.respond("")
}

func (a *API) click(_ http.ResponseWriter, r *http.Request) render.Renderer {
	t, err := parseInstant(r.URL.Query().Get("t"))
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing t: %w", err))
	}

	result, err := a.session.Click(t)
	if err != nil {
		return viewError(err)
	}
	return a.respond(result.String())
}

func (a *API) toggleMeasure(_ http.ResponseWriter, _ *http.Request) render.Renderer {
	a.session.ToggleMeasure()
	return a.respond("")
}

func (a *API) setThreshold(_ http.ResponseWriter, r *http.Request) render.Renderer {
	param := strings.TrimSpace(r.URL.Query().Get("power"))
	if param == "" {
		a.session.SetThreshold(nil)
		return a.respond("cleared")
	}

	power, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return babyapi.ErrInvalidRequest(fmt.Errorf("error parsing power: %w", err))
	}
	a.session.SetThreshold(&power)
	return a.respond("")
}

func (a *API) toggleSeries(_ http.ResponseWriter, r *http.Request) render.Renderer {
	visible, err := a.session.ToggleSeries(chi.URLParam(r, "series"))
	if err != nil {
		return babyapi.ErrNotFoundResponse
	}
	if visible {
		return a.respond("shown")
	}
	return a.respond("hidden")
}

func (a *API) setSelectable(_ http.ResponseWriter, r *http.Request) render.Renderer {
	m, err := plantchart.ParseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		return babyapi.ErrInvalidRequest(err)
	}

	err = a.session.SetSelectable(m)
	if err != nil {
		return babyapi.ErrInvalidRequest(err)
	}
	return a.respond("")
}

func (a *API) reset(_ http.ResponseWriter, r *http.Request) render.Renderer {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	err := a.session.Reset(confirmed)
	if err != nil {
		return babyapi.ErrInvalidRequest(err)
	}
	return a.respond("reset")
}

func (a *API) renderChart(w http.ResponseWriter, r *http.Request) {
	frame, err := a.session.Frame()
	if err != nil {
		_ = render.Render(w, r, viewError(err))
		return
	}

	chart, err := frame.Chart()
	if err != nil {
		_ = render.Render(w, r, babyapi.InternalServerError(err))
		return
	}

	err = chart.Render(w)
	if err != nil {
		log.Error().Err(err).Msg("error rendering chart")
	}
}

func (a *API) exportPNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plantchart.ReportFilename(a.now())))

	err := a.session.ExportPNG(w)
	if err != nil {
		w.Header().Del("Content-Disposition")
		w.Header().Set("Content-Type", "application/json")
		_ = render.Render(w, r, viewError(err))
	}
}

// viewError maps session errors to responses. Missing data is a conflict
// with the current state rather than a bad request.
func viewError(err error) *babyapi.ErrResponse {
	switch {
	case errors.Is(err, plantchart.ErrNoData), errors.Is(err, plantchart.ErrStaleLoad):
		return conflict(err)
	case errors.Is(err, plantchart.ErrInvalidRange),
		errors.Is(err, plantchart.ErrInvalidWindow),
		errors.Is(err, plantchart.ErrInvalidPreset):
		return babyapi.ErrInvalidRequest(err)
	}
	return babyapi.InternalServerError(err)
}

func conflict(err error) *babyapi.ErrResponse {
	return &babyapi.ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     http.StatusText(http.StatusConflict),
		ErrorText:      err.Error(),
	}
}

// parseInstant reads an RFC3339 time or Unix milliseconds, the format
// ECharts reports time axis values in
func parseInstant(s string) (time.Time, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Parse(time.RFC3339, s)
}
