package output

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/klauspost/compress/gzip"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

//go:embed report_template.html
var reportTemplate string

//go:embed report_script.js
var reportScript string

// ExportHTML exports the results as a standalone HTML report with embedded
// data. The file includes all necessary CSS, JavaScript and the data itself,
// making it fully self-contained and openable in any modern browser. The
// JSON payload is gzip-compressed and base64-encoded to keep the file small;
// the embedded script inflates it with the browser's DecompressionStream.
func ExportHTML(w io.Writer, res analysis.Results, info ReportInfo) error {
	// Full JSON data structure (same as the JSON export, all sections).
	data := buildJSONData(res, info, []string{"all"})

	// Meta section consumed by the report header.
	data["meta"] = map[string]any{
		"tool":         "sma",
		"version":      info.Version,
		"run_id":       info.RunID,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}

	var gzBuf bytes.Buffer
	gzWriter, err := gzip.NewWriterLevel(&gzBuf, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := gzWriter.Write(jsonBytes); err != nil {
		return fmt.Errorf("failed to compress JSON: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}

	compressed := base64.StdEncoding.EncodeToString(gzBuf.Bytes())

	script, err := minifyReportScript()
	if err != nil {
		return err
	}

	html := strings.NewReplacer(
		"{{REPORT_JSON_DATA}}", compressed,
		"{{REPORT_SCRIPT}}", script,
		"{{RUN_ID}}", info.RunID,
		"{{GENERATED_AT}}", time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	).Replace(reportTemplate)

	if _, err := w.Write([]byte(html)); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

// minifyReportScript shrinks the embedded chart script before injection.
// The source stays readable in the repo; the report carries the minified form.
func minifyReportScript() (string, error) {
	result := api.Transform(reportScript, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2020,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
	})
	if len(result.Errors) > 0 {
		msgs := api.FormatMessages(result.Errors, api.FormatMessagesOptions{Kind: api.ErrorMessage})
		return "", fmt.Errorf("failed to minify report script: %s", strings.Join(msgs, "; "))
	}
	return string(result.Code), nil
}
