package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// printer escribe resultados en json o en tablas de texto.
type printer struct {
	w      io.Writer
	format string // "json" | "text"
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, format: strings.ToLower(format)}
}

func (p *printer) isJSON() bool { return p.format == "json" }

func (p *printer) json(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(b))
	return err
}

func (p *printer) table(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func (p *printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// page es la forma json de una página de una vista.
type page[T any] struct {
	Page    int  `json:"page"`
	Pages   int  `json:"pages"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
	Items   []T  `json:"items"`
}

func (p *printer) footer(pg, pages, total int, hasPrev, hasNext bool) {
	nav := []string{}
	if hasPrev {
		nav = append(nav, fmt.Sprintf("--page %d ← anterior", pg-1))
	}
	if hasNext {
		nav = append(nav, fmt.Sprintf("siguiente → --page %d", pg+1))
	}
	p.line("\npágina %d/%d · %d resultados  %s", pg, pages, total, strings.Join(nav, "  "))
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
