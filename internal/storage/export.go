package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float64   `json:"times"`
	Theta  []float64   `json:"theta"`
	Omega  []float64   `json:"omega"`
	Energy []float64   `json:"energy"`
}

// ExportJSON writes the run metadata and its series to w as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, traj *dynamo.Trajectory, energy []float64) error {
	data := ExportData{
		Run:    meta,
		Times:  traj.Times,
		Theta:  traj.Angles,
		Omega:  traj.Omegas,
		Energy: energy,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
