package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/bugsim/internal/sim"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Tick      uint64         `json:"tick"`
	Positions []ExportEntity `json:"positions"`
}

type ExportEntity struct {
	ID uint64  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func ExportJSON(w io.Writer, meta RunMetadata, frames []sim.Frame) error {
	data := ExportData{
		Run:    meta,
		Frames: make([]ExportFrame, len(frames)),
	}
	for i, f := range frames {
		ef := ExportFrame{Tick: f.Tick, Positions: make([]ExportEntity, len(f.Positions))}
		for j, p := range f.Positions {
			ef.Positions[j] = ExportEntity{ID: uint64(p.ID), X: p.X, Y: p.Y}
		}
		data.Frames[i] = ef
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
