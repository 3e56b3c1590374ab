package watermark

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// layer is one text watermark pass over every page.
type layer struct {
	text string
	desc string
}

// buildLayers assembles the four forensic layers: the crossed-diagonal
// tiling texture (both diagonals, very low opacity), the header line,
// the large diagonal ghost line and the footer fingerprint line.
func buildLayers(id Identity, at time.Time, fp string) []layer {
	tiling := strings.TrimSpace(strings.Repeat("-  ", 40))
	header := fmt.Sprintf("%s · ID %d · %s", id.Email, id.UserID, at.Format("02/01/2006 15:04:05"))
	ghost := fmt.Sprintf("%s  ·  ID %d  ·  %s", id.Email, id.UserID, fp)
	footer := fmt.Sprintf("Cópia licenciada · %s", fp)

	return []layer{
		{text: tiling, desc: "fontname:Helvetica, points:14, scale:1 rel, d:1, op:0.05, fillcolor:#9A9A9A"},
		{text: tiling, desc: "fontname:Helvetica, points:14, scale:1 rel, d:2, op:0.05, fillcolor:#9A9A9A"},
		{text: header, desc: "fontname:Helvetica, points:8, scale:1 abs, pos:tc, off:0 -14, rot:0, op:0.35, fillcolor:#404040"},
		{text: ghost, desc: "fontname:Helvetica, points:24, scale:0.9 rel, pos:c, rot:28, op:0.12, fillcolor:#3C3C3C"},
		{text: footer, desc: "fontname:Helvetica, points:9, scale:1 abs, pos:bc, off:0 14, rot:0, op:0.6, fillcolor:#202020"},
	}
}

// Personalize stamps the per-user forensic watermarks onto every page of
// the source PDF and re-serializes it, entirely in memory. It is a pure
// transformation: no network, no database, no shared mutable state, so
// it can run arbitrarily in parallel across requests. Output must never
// be cached; the fingerprint is unique per generation instant.
func Personalize(src []byte, id Identity, at time.Time) ([]byte, error) {
	fp := Fingerprint(id, at)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	current := src
	for _, l := range buildLayers(id, at, fp) {
		wm, err := api.TextWatermark(l.text, l.desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("watermark: bad layer description: %w", err)
		}
		var buf bytes.Buffer
		if err := api.AddWatermarks(bytes.NewReader(current), &buf, nil, wm, conf); err != nil {
			return nil, fmt.Errorf("watermark: stamping failed: %w", err)
		}
		current = buf.Bytes()
	}
	return current, nil
}
