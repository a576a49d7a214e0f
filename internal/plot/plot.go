// Package plot renders models, acquisition geometry, and seismograms as
// self-contained HTML charts.
//
// Coordinate convention follows the model package: index (0, 0) is the
// top-left corner, x grows to the right, z grows downward.
package plot

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"sofictl/internal/geometry"
	"sofictl/internal/model"
	"sofictl/internal/output"
)

// maxHeatmapCells caps the number of rendered cells so large grids stay
// responsive in the browser; the grid is strided down above it.
const maxHeatmapCells = 40000

// Model renders a grid as a heatmap.
func Model(g *model.Grid, title string, w io.Writer) error {
	hm, err := modelHeatmap(g, title)
	if err != nil {
		return err
	}
	return hm.Render(w)
}

// ModelFile renders a grid heatmap to an HTML file.
func ModelFile(g *model.Grid, title, path string) error {
	return renderFile(path, func(w io.Writer) error { return Model(g, title, w) })
}

// ModelWithGeometry renders a grid heatmap with source and receiver
// positions overlaid, scaled to grid indices like the model itself.
func ModelWithGeometry(g *model.Grid, srcs []geometry.Source, recs []geometry.Receiver, title string, w io.Writer) error {
	hm, err := modelHeatmap(g, title)
	if err != nil {
		return err
	}

	if len(srcs) > 0 && g.DX > 0 && g.DZ > 0 {
		points := make([]opts.ScatterData, 0, len(srcs))
		for _, s := range srcs {
			points = append(points, opts.ScatterData{
				Value:      []interface{}{s.X / g.DX, s.Z / g.DZ},
				Symbol:     "triangle",
				SymbolSize: 14,
			})
		}
		sc := charts.NewScatter()
		sc.AddSeries("Sources", points)
		hm.Overlap(sc)
	}
	if len(recs) > 0 && g.DX > 0 && g.DZ > 0 {
		points := make([]opts.ScatterData, 0, len(recs))
		for _, r := range recs {
			points = append(points, opts.ScatterData{
				Value:      []interface{}{r.X / g.DX, r.Z / g.DZ},
				SymbolSize: 5,
			})
		}
		sc := charts.NewScatter()
		sc.AddSeries("Receivers", points)
		hm.Overlap(sc)
	}

	return hm.Render(w)
}

// ModelWithGeometryFile renders the geometry overlay chart to an HTML file.
func ModelWithGeometryFile(g *model.Grid, srcs []geometry.Source, recs []geometry.Receiver, title, path string) error {
	return renderFile(path, func(w io.Writer) error {
		return ModelWithGeometry(g, srcs, recs, title, w)
	})
}

func modelHeatmap(g *model.Grid, title string) (*charts.HeatMap, error) {
	if g == nil || len(g.Data) == 0 {
		return nil, fmt.Errorf("plot: empty model grid")
	}

	stride := 1
	for (g.NX/stride)*(g.NZ/stride) > maxHeatmapCells {
		stride++
	}

	stats := g.Stats()
	data := make([]opts.HeatMapData, 0, (g.NX/stride+1)*(g.NZ/stride+1))
	for ix := 0; ix < g.NX; ix += stride {
		for iz := 0; iz < g.NZ; iz += stride {
			// z axis inverted so depth grows downward in the chart.
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{ix, g.NZ - 1 - iz, g.At(ix, iz)},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "480px", PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x index", Max: g.NX - 1}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "z index", Max: g.NZ - 1}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(stats.Min),
			Max:        float32(stats.Max),
		}),
	)
	hm.AddSeries(title, data)
	return hm, nil
}

// Seismogram renders a shot gather as a heatmap of receiver index against
// time, optionally normalizing each trace first.
func Seismogram(s *output.Seismogram, title string, normalize bool, w io.Writer) error {
	if s == nil || len(s.Data) == 0 {
		return fmt.Errorf("plot: empty seismogram")
	}
	if normalize {
		s.Normalize()
	}

	strideT := 1
	for s.NRec*(s.NT/strideT) > maxHeatmapCells {
		strideT++
	}

	var min, max float32
	for _, v := range s.Data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	data := make([]opts.HeatMapData, 0, s.NRec*(s.NT/strideT+1))
	for r := 0; r < s.NRec; r++ {
		trace := s.Trace(r)
		for ti := 0; ti < s.NT; ti += strideT {
			data = append(data, opts.HeatMapData{
				Value: [3]interface{}{float64(ti) * s.DT, r, trace[ti]},
			})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "600px", PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "time (s)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "receiver index", Max: s.NRec - 1}),
		charts.WithVisualMapOpts(opts.VisualMap{Calculable: opts.Bool(true), Min: min, Max: max}),
	)
	hm.AddSeries(title, data)
	return hm.Render(w)
}

// SeismogramFile renders a shot gather to an HTML file.
func SeismogramFile(s *output.Seismogram, title, path string, normalize bool) error {
	return renderFile(path, func(w io.Writer) error {
		return Seismogram(s, title, normalize, w)
	})
}

// Traces renders selected receiver traces as line series over time.
func Traces(s *output.Seismogram, indices []int, title string, w io.Writer) error {
	if s == nil || len(s.Data) == 0 {
		return fmt.Errorf("plot: empty seismogram")
	}

	times := make([]string, s.NT)
	for t := range times {
		times[t] = fmt.Sprintf("%.4f", float64(t)*s.DT)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1100px", Height: "500px", PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "time (s)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)
	line.SetXAxis(times)
	for _, r := range indices {
		if r < 0 || r >= s.NRec {
			return fmt.Errorf("plot: trace index %d out of range 0..%d", r, s.NRec-1)
		}
		series := make([]opts.LineData, s.NT)
		for t, v := range s.Trace(r) {
			series[t] = opts.LineData{Value: v}
		}
		line.AddSeries(fmt.Sprintf("receiver %d", r), series)
	}
	return line.Render(w)
}

func renderFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer file.Close()
	if err := render(file); err != nil {
		return err
	}
	return file.Close()
}
