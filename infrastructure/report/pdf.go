// Package report renders the process report PDF served by the mock
// analytics API.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"processflow/infrastructure/dataset"
	"processflow/pkg/utils"
)

const (
	fontFamily   = "Helvetica"
	pageMargin   = 15.0
	lineHeight   = 6.0
	headerHeight = 7.0
)

// Render builds the report for ds. The result is a complete PDF document.
func Render(ds *dataset.Dataset, generatedAt time.Time) ([]byte, error) {
	if ds == nil {
		return nil, fmt.Errorf("dataset is nil")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Process Report", true)
	pdf.SetAuthor("processflow", true)
	// core fonts are cp1252; units such as "W/m²·K" need translating
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, "Process Report", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, lineHeight, "Generated "+utils.Timestamp(generatedAt), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	mainText, topText, impactText := ds.Summaries()
	section(pdf, "Summary")
	paragraph(pdf, tr(mainText))
	paragraph(pdf, tr(topText))

	section(pdf, "Top Impact")
	impact := ds.TopImpact()
	labels := make([]string, 0, len(impact.TopImpact))
	for label := range impact.TopImpact {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	rows := make([][]string, 0, len(labels))
	for _, label := range labels {
		rows = append(rows, []string{tr(label), formatPercent(impact.TopImpact[label])})
	}
	table(pdf, []string{"Variable", "Impact"}, []float64{120, 60}, rows)

	section(pdf, "Setpoint Impact")
	paragraph(pdf, tr(impactText))
	rows = rows[:0]
	for _, s := range ds.SetpointImpacts() {
		rows = append(rows, []string{tr(s.Equipment), tr(s.Setpoint), formatFloat(s.Weightage), tr(s.Unit)})
	}
	table(pdf, []string{"Equipment", "Setpoint", "Weightage", "Unit"}, []float64{55, 55, 40, 30}, rows)

	section(pdf, "KPI Statistics")
	stats := ds.KPIStats()
	table(pdf, []string{"Statistic", "Value"}, []float64{90, 90}, [][]string{
		{"Scenarios", strconv.Itoa(stats.Count)},
		{"Min", formatFloat(stats.Min)},
		{"Max", formatFloat(stats.Max)},
		{"Mean", formatFloat(stats.Mean)},
		{"Std", formatFloat(stats.Std)},
		{"Median", formatFloat(stats.Median)},
		{"Range", formatFloat(stats.Range)},
	})

	section(pdf, fmt.Sprintf("Top %d Scenarios", dataset.TopScenarioCount))
	rows = rows[:0]
	for i, s := range ds.TopScenarios(dataset.TopScenarioCount) {
		rows = append(rows, []string{strconv.Itoa(i + 1), tr(s.Scenario), tr(s.KPI), formatFloat(s.KPIValue)})
	}
	table(pdf, []string{"Rank", "Scenario", "KPI", "Value"}, []float64{20, 80, 45, 35}, rows)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.Ln(3)
	pdf.SetFont(fontFamily, "B", 13)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func paragraph(pdf *gofpdf.Fpdf, text string) {
	if text == "" {
		return
	}
	pdf.SetFont(fontFamily, "", 10)
	pdf.MultiCell(0, 5, text, "", "L", false)
	pdf.Ln(2)
}

func table(pdf *gofpdf.Fpdf, header []string, widths []float64, rows [][]string) {
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetFillColor(229, 231, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], headerHeight, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 10)
	if len(rows) == 0 {
		var total float64
		for _, w := range widths {
			total += w
		}
		pdf.CellFormat(total, lineHeight, "No data", "1", 1, "C", false, 0, "")
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			pdf.CellFormat(widths[i], lineHeight, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
}
