package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkordes/family-trip-planner/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"group", "date", "activity", "status", "time_order", "cost", "attendees",
}

// ExportRow is the JSON shape of one export row.
type ExportRow struct {
	Group     string   `json:"group"`
	Date      string   `json:"date"`
	Activity  string   `json:"activity"`
	Status    string   `json:"status"`
	TimeOrder int      `json:"time_order"`
	Cost      float64  `json:"cost"`
	Attendees []string `json:"attendees"`
}

// getExport handles GET /itinerary/export.
// It returns the grid as a flat table in display order. Use ?format=csv to
// receive CSV; default is JSON.
func (s *Server) getExport(w http.ResponseWriter, r *http.Request) {
	format, err := queryString(r, "format")
	if err != nil {
		badRequest(w, "invalid format parameter")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err, "itinerary not found")
		return
	}

	if format != nil && *format == "csv" {
		writeCSV(w, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes rows as CSV. Attendees within a row are pipe-separated
// ("|") to keep each item on a single CSV line.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.Group,
		r.Date,
		r.Activity,
		r.Status,
		strconv.Itoa(r.TimeOrder),
		strconv.FormatFloat(r.Cost, 'f', -1, 64),
		strings.Join(r.Attendees, "|"),
	}
}
