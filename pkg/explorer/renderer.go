// Package explorer turns a frame into the field/data specification the
// visual explorer widget renders from.
package explorer

import (
	"encoding/hex"
	"fmt"

	"data-explorer-be/pkg/frame"

	"github.com/zeebo/blake3"
)

const (
	SemanticQuantitative = "quantitative"
	SemanticTemporal     = "temporal"
	SemanticNominal      = "nominal"

	AnalyticMeasure   = "measure"
	AnalyticDimension = "dimension"
)

type Field struct {
	FID          string `json:"fid"`
	Name         string `json:"name"`
	SemanticType string `json:"semantic_type"`
	AnalyticType string `json:"analytic_type"`
}

type Appearance struct {
	Theme  string `json:"theme"`
	Layout string `json:"layout"`
}

// Spec is everything the explorer needs to draw a frame.
type Spec struct {
	SessionID  string           `json:"session_id"`
	Name       string           `json:"name"`
	Fields     []Field          `json:"fields"`
	Data       []map[string]any `json:"data"`
	Appearance Appearance       `json:"appearance"`
}

// Renderer is a rendering session bound to one frame.
type Renderer struct {
	frame *frame.Frame
}

func NewRenderer(f *frame.Frame) *Renderer {
	return &Renderer{frame: f}
}

// Spec builds the explorer spec. The same frame content always yields the
// same spec, session id included.
func (r *Renderer) Spec() *Spec {
	kinds := r.frame.ColumnKinds()

	fields := make([]Field, len(r.frame.Columns))
	for i, name := range r.frame.Columns {
		semantic, analytic := classify(kinds[i])
		fields[i] = Field{
			FID:          fmt.Sprintf("col_%d", i),
			Name:         name,
			SemanticType: semantic,
			AnalyticType: analytic,
		}
	}

	data := make([]map[string]any, len(r.frame.Rows))
	for ri, row := range r.frame.Rows {
		record := make(map[string]any, len(fields))
		for ci, cell := range row {
			record[fields[ci].FID] = typedValue(cell, kinds[ci])
		}
		data[ri] = record
	}

	return &Spec{
		SessionID: Fingerprint(r.frame),
		Name:      r.frame.Name,
		Fields:    fields,
		Data:      data,
		Appearance: Appearance{
			Theme:  "media",
			Layout: "wide",
		},
	}
}

func classify(kind frame.Kind) (semantic, analytic string) {
	switch kind {
	case frame.KindNumber:
		return SemanticQuantitative, AnalyticMeasure
	case frame.KindDatetime:
		return SemanticTemporal, AnalyticDimension
	default:
		return SemanticNominal, AnalyticDimension
	}
}

func typedValue(cell string, kind frame.Kind) any {
	if frame.IsNull(cell) {
		return nil
	}
	if kind == frame.KindNumber {
		if v, ok := frame.ParseNumber(cell); ok {
			return v
		}
	}
	return cell
}

// Fingerprint hashes the frame's columns and cells.
func Fingerprint(f *frame.Frame) string {
	h := blake3.New()
	writeCells(h, f.Columns)
	for _, row := range f.Rows {
		writeCells(h, row)
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

func writeCells(h *blake3.Hasher, cells []string) {
	for _, c := range cells {
		fmt.Fprintf(h, "%d:%s", len(c), c)
	}
	h.Write([]byte{'\n'})
}
