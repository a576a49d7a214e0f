package params_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"sofictl/internal/params"
	"sofictl/internal/stages"
)

func TestRenderIsValidOrderedJSON(t *testing.T) {
	set := params.Default(500, 200, 10.0)
	data, err := set.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("rendered file is not valid JSON: %v", err)
	}
	if raw["NX"] != "500" || raw["NY"] != "200" || raw["DH"] != "10" {
		t.Fatalf("grid values wrong: NX=%q NY=%q DH=%q", raw["NX"], raw["NY"], raw["DH"])
	}
	if raw["Domain Decomposition"] != "comment" {
		t.Fatal("expected section header comment entry")
	}

	// Block order matters to human readers of the parameter file: the domain
	// decomposition opens the file and monitoring closes it.
	text := string(data)
	first := strings.Index(text, `"NPROCX"`)
	last := strings.Index(text, `"OUT_TIMESTEP_INFO"`)
	if first < 0 || last < 0 || first > last {
		t.Fatalf("unexpected ordering: NPROCX at %d, OUT_TIMESTEP_INFO at %d", first, last)
	}
}

func TestRenderParseRoundTrip(t *testing.T) {
	set := params.Default(864, 240, 10.0)
	set.Domain.NProcX = 4
	set.Domain.NProcY = 2
	set.Time = params.TimeStepping{Time: 3.5, DT: 0.0008}
	set.WEQ = "AC_ISO"
	set.Snapshots.TSnapInc = 0.125

	data, err := set.Render()
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	parsed, err := params.Parse(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed != set {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", parsed, set)
	}

	again, err := parsed.Render()
	if err != nil {
		t.Fatalf("second Render returned error: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("render → parse → render is not byte identical")
	}
}

func TestWriteFileReadFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sofi2d.json")
	set := params.Default(300, 100, 5.0)
	if err := set.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	parsed, err := params.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if parsed != set {
		t.Fatal("file round trip mismatch")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	_, err := params.Parse(strings.NewReader(`{"NX": "10", "BOGUS": "1"}`))
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !errors.Is(err, stages.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
	if !strings.Contains(err.Error(), "BOGUS") {
		t.Fatalf("error should name the key: %v", err)
	}
}

func TestParseRejectsBadNumber(t *testing.T) {
	_, err := params.Parse(strings.NewReader(`{"NX": "ten"}`))
	if !errors.Is(err, stages.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestValidateNamesMissingKey(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*params.Set)
		key    string
	}{
		{"missing NX", func(s *params.Set) { s.Grid.NX = 0 }, "NX"},
		{"missing NY", func(s *params.Set) { s.Grid.NY = 0 }, "NY"},
		{"missing DH", func(s *params.Set) { s.Grid.DH = 0 }, "DH"},
		{"bad DT", func(s *params.Set) { s.Time.DT = -1 }, "DT"},
		{"bad WEQ", func(s *params.Set) { s.WEQ = "EL_ANISO" }, "WEQ"},
		{"nprocx not dividing", func(s *params.Set) { s.Domain.NProcX = 7 }, "NPROCX"},
		{"missing source file", func(s *params.Set) { s.Source.File = "" }, "SOURCE_FILE"},
		{"bad abs type", func(s *params.Set) { s.Boundary.AbsType = 3 }, "ABS_TYPE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			set := params.Default(500, 200, 10.0)
			tc.mutate(&set)
			err := set.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, stages.ErrConfiguration) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Fatalf("error should name %s: %v", tc.key, err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	set := params.Default(500, 200, 10.0)
	if err := set.Validate(); err != nil {
		t.Fatalf("default set should validate: %v", err)
	}
}
