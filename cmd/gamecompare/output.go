package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// OutputConfig holds global output settings
type OutputConfig struct {
	JSON  bool
	Quiet bool
}

var (
	outputCfg OutputConfig

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	highlight = color.New(color.FgGreen, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
	warn      = color.New(color.FgYellow).SprintFunc()
	failure   = color.New(color.FgRed).SprintFunc()
)

// PrintResult outputs data based on output config
func PrintResult(data any) {
	if !outputCfg.JSON {
		switch v := data.(type) {
		case string:
			_, _ = fmt.Fprintln(stdout, v)
			return
		case []string:
			for _, s := range v {
				_, _ = fmt.Fprintln(stdout, s)
			}
			return
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// PrintTable outputs tabular data
func PrintTable(headers []string, rows [][]string) {
	if outputCfg.JSON {
		result := make([]map[string]string, len(rows))
		for i, row := range rows {
			m := make(map[string]string, len(headers))
			for j, h := range headers {
				if j < len(row) {
					m[h] = row[j]
				}
			}
			result[i] = m
		}
		PrintResult(result)
		return
	}

	table := tablewriter.NewWriter(stdout)
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	_ = table.Bulk(rows)
	_ = table.Render()
}

// PrintInfo prints info message if not quiet
func PrintInfo(format string, args ...any) {
	if !outputCfg.Quiet && !outputCfg.JSON {
		_, _ = fmt.Fprintf(stdout, format, args...)
	}
}

// PrintError prints error to stderr
func PrintError(format string, args ...any) {
	_, _ = fmt.Fprintf(stderr, format, args...)
}

// formatNumber renders v rounded to two decimals without trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
