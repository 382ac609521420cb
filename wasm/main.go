//go:build js && wasm

// Package main provides the WASM entry point for sma.
// It exposes the parser, analysis, and output packages to JavaScript.
package main

import (
	"bytes"
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/rs/zerolog"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/output"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/parser"
)

const version = "0.1.0-wasm"

// JSFilters is the JSON structure for filters from JavaScript
type JSFilters struct {
	Begin string   `json:"begin"` // ISO datetime string
	End   string   `json:"end"`   // ISO datetime string
	Grep  []string `json:"grep"`  // Substrings each kept line must contain
}

var perf = js.Global().Get("performance")

func now() float64 {
	return perf.Call("now").Float()
}

// convertFilters converts JS filters to parser.LogFilters
func convertFilters(jsf JSFilters) parser.LogFilters {
	var f parser.LogFilters

	// Parse time range (JS sends ISO format like "2024-06-05T00:00")
	if jsf.Begin != "" {
		if t, err := time.Parse("2006-01-02T15:04", jsf.Begin); err == nil {
			f.BeginT = t
		}
	}
	if jsf.End != "" {
		if t, err := time.Parse("2006-01-02T15:04", jsf.End); err == nil {
			f.EndT = t
		}
	}

	f.GrepExpr = jsf.Grep

	return f
}

// jsErr wraps an error message in the JSON shape the UI expects.
func jsErr(msg string) string {
	out, _ := json.Marshal(map[string]string{"error": msg})
	return string(out)
}

func main() {
	js.Global().Set("smaAnalyze", js.FuncOf(analyzeLog))
	js.Global().Set("smaVersion", js.FuncOf(getVersion))
	select {}
}

func getVersion(this js.Value, args []js.Value) interface{} {
	return version
}

func analyzeLog(this js.Value, args []js.Value) interface{} {
	t0 := now()

	if len(args) < 1 {
		return jsErr("No input provided")
	}

	content := args[0].String()
	if len(content) == 0 {
		return jsErr("Empty input")
	}

	// Parse optional filters (second argument)
	var filters parser.LogFilters
	if len(args) >= 2 && !args[1].IsNull() && !args[1].IsUndefined() {
		filtersJSON := args[1].String()
		if filtersJSON != "" {
			var jsFilters JSFilters
			if err := json.Unmarshal([]byte(filtersJSON), &jsFilters); err == nil {
				filters = convertFilters(jsFilters)
			}
		}
	}

	doc, err := parser.ParseFromString("browser-input", content, filters)
	if err != nil {
		return jsErr("Parse error: " + err.Error())
	}

	// The wasm runtime is single-threaded, so the extractors run
	// sequentially. Extractor failures are contained; whatever the
	// others produced still gets exported.
	analyzer := analysis.NewAnalyzer(zerolog.Nop(), false)
	res, _ := analyzer.AnalyzeLines(doc.Lines)

	info := output.ReportInfo{
		Source:      "browser-input",
		Files:       len(doc.Files),
		Lines:       len(doc.Lines),
		Bytes:       int64(len(content)),
		ParseTimeMs: now() - t0,
		Version:     version,
	}

	var buf bytes.Buffer
	if err := output.ExportJSON(&buf, res, info, []string{"all"}); err != nil {
		return jsErr("JSON export error: " + err.Error())
	}
	return buf.String()
}
