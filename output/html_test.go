package output

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

var payloadRe = regexp.MustCompile(`<script id="report-data" type="application/octet-stream">([^<]+)</script>`)

func TestExportHTMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	info := ReportInfo{RunID: "run-123", Source: "system.log", Lines: 1234, Version: "1.0.0"}
	if err := ExportHTML(&buf, testResults(), info); err != nil {
		t.Fatalf("ExportHTML: %v", err)
	}
	html := buf.String()

	if strings.Contains(html, "{{") {
		t.Error("unreplaced template placeholders remain")
	}
	if !strings.Contains(html, "run-123") {
		t.Error("run ID missing from report header")
	}

	m := payloadRe.FindStringSubmatch(html)
	if m == nil {
		t.Fatal("embedded payload not found")
	}

	compressed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(m[1]))
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatalf("payload is not gzip: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompress payload: %v", err)
	}

	var data struct {
		Meta struct {
			RunID string `json:"run_id"`
			Tool  string `json:"tool"`
		} `json:"meta"`
		Summary struct {
			Source string `json:"source"`
		} `json:"summary"`
		GC struct {
			Stats struct {
				Events int `json:"events"`
			} `json:"stats"`
		} `json:"gc"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if data.Meta.RunID != "run-123" || data.Meta.Tool != "sma" {
		t.Errorf("meta = %+v", data.Meta)
	}
	if data.Summary.Source != "system.log" {
		t.Errorf("summary source = %q", data.Summary.Source)
	}
	if data.GC.Stats.Events != 6 {
		t.Errorf("gc events = %d, want 6", data.GC.Stats.Events)
	}
}

func TestMinifyReportScript(t *testing.T) {
	script, err := minifyReportScript()
	if err != nil {
		t.Fatalf("minifyReportScript: %v", err)
	}
	if len(script) == 0 {
		t.Fatal("minified script is empty")
	}
	if len(script) >= len(reportScript) {
		t.Errorf("minified script (%d bytes) not smaller than source (%d bytes)", len(script), len(reportScript))
	}
	if !strings.Contains(script, "DecompressionStream") {
		t.Error("minified script lost the payload decoder")
	}
}
