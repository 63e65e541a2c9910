package restserver

import (
	"encoding/json"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// ConditionInfo describes one material condition
type ConditionInfo struct {
	Condition    string                        `json:"condition"`
	Available    bool                          `json:"available"`
	Coefficients *fatigue.MaterialCoefficients `json:"coefficients,omitempty"`
}

// MaterialInfo describes a material and its conditions
type MaterialInfo struct {
	Material   string          `json:"material"`
	Conditions []ConditionInfo `json:"conditions"`
}

// AnalyzeRequest is the body of POST /analyze. Analysis holds overrides of
// the server's analysis settings using the configuration field names.
type AnalyzeRequest struct {
	Values     []float64       `json:"values"`
	Times      []float64       `json:"times,omitempty"`
	Material   string          `json:"material,omitempty"`
	Condition  string          `json:"condition,omitempty"`
	Analysis   json.RawMessage `json:"analysis,omitempty"`
	WithCycles bool            `json:"with_cycles,omitempty"`
}

// Matrix is a count matrix on the wire
type Matrix struct {
	XEdges []float64   `json:"x_edges"`
	YEdges []float64   `json:"y_edges"`
	Counts [][]float64 `json:"counts"`
}

// CellError locates a matrix cell whose cycles-to-failure is undefined
type CellError struct {
	Row   int     `json:"row"`
	Col   int     `json:"col"`
	Mean  float64 `json:"mean"`
	Range float64 `json:"range"`
}

// Damage is the damage section of an analysis response
type Damage struct {
	Material     string      `json:"material"`
	Condition    string      `json:"condition"`
	Total        float64     `json:"total"`
	Incomplete   bool        `json:"incomplete"`
	DomainErrors []CellError `json:"domain_errors,omitempty"`
}

// AnalyzeResponse is the result of POST /analyze
type AnalyzeResponse struct {
	Samples           int                          `json:"samples"`
	Reversals         int                          `json:"reversals"`
	CycleCount        float64                      `json:"cycle_count"`
	Cycles            fatigue.Cycles               `json:"cycles,omitempty"`
	MeanRange         Matrix                       `json:"mean_range"`
	FromTo            Matrix                       `json:"from_to"`
	PeakValley        Matrix                       `json:"peak_valley"`
	Exceedance        fatigue.LevelCrossingProfile `json:"exceedance"`
	PeakLoad          float64                      `json:"peak_load"`
	MinLoad           float64                      `json:"min_load"`
	Exceeded          bool                         `json:"exceeded"`
	DamageAvailable   bool                         `json:"damage_available"`
	DamageUnavailable string                       `json:"damage_unavailable,omitempty"`
	Damage            *Damage                      `json:"damage,omitempty"`
}

// HealthResponse is returned by /healthz
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Materials int    `json:"materials"`
}

func newMatrix(m *fatigue.CountMatrix) Matrix {
	out := Matrix{XEdges: m.XEdges, YEdges: m.YEdges, Counts: m.Rows()}
	if out.XEdges == nil {
		out.XEdges = []float64{}
	}
	if out.YEdges == nil {
		out.YEdges = []float64{}
	}
	return out
}
