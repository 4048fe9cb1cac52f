package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/dangle/internal/sim"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one row per frame: time, then x and y of every param.
func WriteCSV(w io.Writer, result *sim.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, p := range result.Params {
		header = append(header, string(p)+".x", string(p)+".y")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for i, t := range result.Times {
		row = row[:0]
		row = append(row, formatFloat(t))
		for _, v := range result.Outputs[i] {
			row = append(row, formatFloat(v[0]), formatFloat(v[1]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type ExportData struct {
	ID       string                  `json:"id,omitempty"`
	Scene    string                  `json:"scene"`
	Dt       float64                 `json:"dt"`
	Duration float64                 `json:"duration"`
	Frames   int                     `json:"frames"`
	Drivers  []DriverMeta            `json:"drivers"`
	Times    []float64               `json:"times"`
	Outputs  map[string][][2]float64 `json:"outputs"`
	Metrics  map[string]float64      `json:"metrics"`
}

// ExportJSON writes a run's metadata and outputs as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		ID:       meta.ID,
		Scene:    meta.Scene,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Frames:   len(result.Times),
		Drivers:  meta.Drivers,
		Times:    result.Times,
		Outputs:  make(map[string][][2]float64, len(result.Params)),
		Metrics:  meta.Metrics,
	}

	for j, p := range result.Params {
		series := make([][2]float64, len(result.Outputs))
		for i, row := range result.Outputs {
			series[i] = row[j]
		}
		data.Outputs[string(p)] = series
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
