package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/flightloads/internal/constants"
	"github.com/chrissnell/flightloads/internal/fatigue"
	"github.com/chrissnell/flightloads/internal/material"
	"github.com/chrissnell/flightloads/pkg/responseformat"
)

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// writeError maps the typed errors of the analysis and material packages to
// status codes
func (h *Handlers) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fatigue.ErrConfiguration), errors.Is(err, fatigue.ErrMalformedSignal):
		status = http.StatusBadRequest
	case errors.Is(err, material.ErrMaterialLookup):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.controller.logger.Errorw("request failed", "path", req.URL.Path, "error", err)
	}
	if werr := h.formatter.WriteError(w, req, status, err, ""); werr != nil {
		h.controller.logger.Errorf("error writing error response: %v", werr)
	}
}

func (h *Handlers) write(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data, nil); err != nil {
		h.controller.logger.Errorf("error encoding response for %s: %v", req.URL.Path, err)
		http.Error(w, "error encoding response", http.StatusInternalServerError)
	}
}

// GetHealth reports liveness and the size of the loaded library
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.write(w, req, HealthResponse{
		Status:    "ok",
		Version:   constants.Version,
		Materials: h.controller.store.Library().Len(),
	})
}

// NotFound answers unknown routes in the response format of the API
func (h *Handlers) NotFound(w http.ResponseWriter, req *http.Request) {
	h.formatter.WriteError(w, req, http.StatusNotFound, errors.New("not found"), req.URL.Path)
}

func materialInfo(lib *material.Library, name string) (MaterialInfo, error) {
	conds, err := lib.Conditions(name)
	if err != nil {
		return MaterialInfo{}, err
	}
	info := MaterialInfo{Material: name, Conditions: make([]ConditionInfo, 0, len(conds))}
	for _, cond := range conds {
		e, _ := lib.Entry(name, cond)
		info.Conditions = append(info.Conditions, conditionInfo(cond, e))
	}
	return info, nil
}

func conditionInfo(condition string, e material.Entry) ConditionInfo {
	ci := ConditionInfo{Condition: condition, Available: e.Available}
	if e.Available {
		k := e.Coefficients
		ci.Coefficients = &k
	}
	return ci
}

// GetMaterials lists every material with its conditions
func (h *Handlers) GetMaterials(w http.ResponseWriter, req *http.Request) {
	lib := h.controller.store.Library()

	names := lib.Materials()
	out := make([]MaterialInfo, 0, len(names))
	for _, name := range names {
		info, err := materialInfo(lib, name)
		if err != nil {
			h.writeError(w, req, err)
			return
		}
		out = append(out, info)
	}
	h.write(w, req, out)
}

// GetMaterial returns one material
func (h *Handlers) GetMaterial(w http.ResponseWriter, req *http.Request) {
	info, err := materialInfo(h.controller.store.Library(), mux.Vars(req)["material"])
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.write(w, req, info)
}

// GetCondition returns one material condition. A placeholder entry is a
// normal response with available set to false.
func (h *Handlers) GetCondition(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	name, cond := vars["material"], vars["condition"]

	lib := h.controller.store.Library()
	e, ok := lib.Entry(name, cond)
	if !ok {
		if _, err := lib.Conditions(name); err != nil {
			h.writeError(w, req, err)
			return
		}
		h.writeError(w, req, &material.NotFoundError{Material: name, Condition: cond})
		return
	}
	h.write(w, req, conditionInfo(cond, e))
}

// PostAnalyze runs the pipeline on the signal in the request body
func (h *Handlers) PostAnalyze(w http.ResponseWriter, req *http.Request) {
	start := time.Now()

	var body AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err), "")
		return
	}

	settings := h.controller.analysis
	if len(body.Analysis) > 0 {
		if err := json.Unmarshal(body.Analysis, &settings); err != nil {
			h.formatter.WriteError(w, req, http.StatusBadRequest, fmt.Errorf("invalid analysis settings: %w", err), "")
			return
		}
	}
	cfg, err := settings.FatigueConfig()
	if err != nil {
		h.formatter.WriteError(w, req, http.StatusBadRequest, err, "")
		return
	}

	signal, err := fatigue.NewSignal(body.Values, body.Times)
	if err != nil {
		h.writeError(w, req, err)
		return
	}

	name, cond := body.Material, body.Condition
	if name == "" && cond == "" {
		name, cond = h.controller.selection.Material, h.controller.selection.Condition
	}

	var coeffs *fatigue.MaterialCoefficients
	unavailable := ""
	if name == "" {
		unavailable = "no material selected"
	} else {
		k, err := h.controller.store.Lookup(name, cond)
		var noData *material.NoDataError
		switch {
		case errors.As(err, &noData):
			unavailable = noData.Error()
		case err != nil:
			h.writeError(w, req, err)
			return
		default:
			coeffs = &k
		}
	}

	res, err := fatigue.Analyze(signal, cfg, coeffs)
	if err != nil {
		h.writeError(w, req, err)
		return
	}
	h.controller.metrics.ObserveAnalysis(time.Since(start), res.Cycles.TotalWeight(), len(res.Damage.DomainErrors))

	out := AnalyzeResponse{
		Samples:           signal.Len(),
		Reversals:         len(res.Reversals),
		CycleCount:        res.Cycles.TotalWeight(),
		MeanRange:         newMatrix(&res.MeanRange),
		FromTo:            newMatrix(&res.FromTo),
		PeakValley:        newMatrix(&res.PeakValley),
		Exceedance:        res.Exceedance,
		PeakLoad:          res.PeakLoad,
		MinLoad:           res.MinLoad,
		Exceeded:          res.Exceeded,
		DamageAvailable:   res.DamageAvailable,
		DamageUnavailable: unavailable,
	}
	if body.WithCycles {
		out.Cycles = res.Cycles
	}
	if res.DamageAvailable {
		d := &Damage{
			Material:   name,
			Condition:  cond,
			Total:      res.Damage.Total,
			Incomplete: res.Damage.Incomplete,
		}
		for _, de := range res.Damage.DomainErrors {
			d.DomainErrors = append(d.DomainErrors, CellError{Row: de.Row, Col: de.Col, Mean: de.Mean, Range: de.Range})
		}
		out.Damage = d
	}

	h.write(w, req, out)
}
