package plot_test

import (
	"bytes"
	"strings"
	"testing"

	"sofictl/internal/geometry"
	"sofictl/internal/model"
	"sofictl/internal/output"
	"sofictl/internal/plot"
)

func testGrid(t *testing.T) *model.Grid {
	t.Helper()
	g, err := model.NewConstant(10, 6, 10.0, 10.0, 2500)
	if err != nil {
		t.Fatalf("NewConstant failed: %v", err)
	}
	return g
}

func TestModelRendersHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := plot.Model(testGrid(t), "Vp", &buf); err != nil {
		t.Fatalf("Model failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Fatal("expected echarts markup in output")
	}
	if !strings.Contains(html, "Vp") {
		t.Fatal("expected title in output")
	}
}

func TestModelRejectsEmptyGrid(t *testing.T) {
	var buf bytes.Buffer
	if err := plot.Model(&model.Grid{}, "empty", &buf); err == nil {
		t.Fatal("expected error for empty grid")
	}
}

func TestModelWithGeometryIncludesOverlays(t *testing.T) {
	srcs := []geometry.Source{{X: 40, Z: 10}}
	recs := geometry.Line(0, 10, 90, 10, 5)

	var buf bytes.Buffer
	if err := plot.ModelWithGeometry(testGrid(t), srcs, recs, "Model with geometry", &buf); err != nil {
		t.Fatalf("ModelWithGeometry failed: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "Sources") || !strings.Contains(html, "Receivers") {
		t.Fatal("expected overlay series in output")
	}
}

func testSeismogram() *output.Seismogram {
	s := &output.Seismogram{NRec: 4, NT: 50, DT: 0.001, Data: make([]float32, 200)}
	for i := range s.Data {
		s.Data[i] = float32(i%7) - 3
	}
	return s
}

func TestSeismogramRendersHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := plot.Seismogram(testSeismogram(), "Shot gather", true, &buf); err != nil {
		t.Fatalf("Seismogram failed: %v", err)
	}
	if !strings.Contains(buf.String(), "echarts") {
		t.Fatal("expected echarts markup in output")
	}
}

func TestTracesRejectsOutOfRangeIndex(t *testing.T) {
	var buf bytes.Buffer
	if err := plot.Traces(testSeismogram(), []int{99}, "traces", &buf); err == nil {
		t.Fatal("expected error for out-of-range trace index")
	}
}

func TestTracesRendersSelectedReceivers(t *testing.T) {
	var buf bytes.Buffer
	if err := plot.Traces(testSeismogram(), []int{0, 2}, "traces", &buf); err != nil {
		t.Fatalf("Traces failed: %v", err)
	}
	if !strings.Contains(buf.String(), "receiver 2") {
		t.Fatal("expected named series in output")
	}
}
