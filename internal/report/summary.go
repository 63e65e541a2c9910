package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/chrissnell/flightloads/internal/fatigue"
)

// SignalStats describes the load history of one flight
type SignalStats struct {
	Samples  int     `json:"samples"`
	Duration float64 `json:"duration_s"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// DamageSummary is the damage part of a report. It is omitted when no
// material coefficients were available.
type DamageSummary struct {
	Material     string  `json:"material,omitempty"`
	Condition    string  `json:"condition,omitempty"`
	Total        float64 `json:"total"`
	Incomplete   bool    `json:"incomplete"`
	DomainErrors int     `json:"domain_errors"`
}

// FlightSummary is the JSON document written for one flight
type FlightSummary struct {
	RunID     string                       `json:"run_id"`
	Generated time.Time                    `json:"generated"`
	Source    string                       `json:"source"`
	Signal    SignalStats                  `json:"signal"`
	Reversals int                          `json:"reversals"`
	Cycles    float64                      `json:"cycles"`
	Residue   int                          `json:"residue"`
	PeakLoad  float64                      `json:"peak_load"`
	MinLoad   float64                      `json:"min_load"`
	Exceeded  bool                         `json:"exceeded"`
	Exceed    fatigue.LevelCrossingProfile `json:"exceedance"`
	Damage    *DamageSummary               `json:"damage,omitempty"`
}

// Stats computes the descriptive statistics of a signal
func Stats(s *fatigue.Signal) SignalStats {
	values := s.Values()
	st := SignalStats{Samples: len(values)}
	if len(values) == 0 {
		return st
	}
	st.Duration = s.Samples[len(s.Samples)-1].Time - s.Samples[0].Time
	st.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		st.StdDev = stat.StdDev(values, nil)
	}
	st.Min = floats.Min(values)
	st.Max = floats.Max(values)
	return st
}

// NewRunID returns a fresh identifier for a batch of reports
func NewRunID() string {
	return uuid.NewString()
}

// NewFlightSummary builds the summary of one analysed flight. material and
// condition only label the damage section.
func NewFlightSummary(runID, source string, s *fatigue.Signal, res *fatigue.Result, material, condition string) FlightSummary {
	fs := FlightSummary{
		RunID:     runID,
		Generated: time.Now().UTC(),
		Source:    source,
		Signal:    Stats(s),
		Reversals: len(res.Reversals),
		Cycles:    res.Cycles.TotalWeight(),
		Residue:   len(res.Residue),
		PeakLoad:  res.PeakLoad,
		MinLoad:   res.MinLoad,
		Exceeded:  res.Exceeded,
		Exceed:    res.Exceedance,
	}
	if res.DamageAvailable {
		fs.Damage = &DamageSummary{
			Material:     material,
			Condition:    condition,
			Total:        res.Damage.Total,
			Incomplete:   res.Damage.Incomplete,
			DomainErrors: len(res.Damage.DomainErrors),
		}
	}
	return fs
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
