// Package ingest reads delivery-record CSV exports into raw rows for the
// analysis engine. It is deliberately tolerant: header matching is
// case-insensitive, unknown columns are ignored, and short lines are padded
// rather than rejected.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dialops/dropscope/internal/analysis"
)

// columnSetters maps a normalized header name to the RawRow field it fills.
// Both primary names and export aliases are listed; the analysis normalizer
// applies the fallback order between them.
var columnSetters = map[string]func(*analysis.RawRow, string){
	"number":               func(r *analysis.RawRow, v string) { r.Number = v },
	"phone_number":         func(r *analysis.RawRow, v string) { r.PhoneNumber = v },
	"voapps_timestamp":     func(r *analysis.RawRow, v string) { r.VoappsTimestamp = v },
	"timestamp":            func(r *analysis.RawRow, v string) { r.Timestamp = v },
	"voapps_result":        func(r *analysis.RawRow, v string) { r.VoappsResult = v },
	"result":               func(r *analysis.RawRow, v string) { r.Result = v },
	"message_id":           func(r *analysis.RawRow, v string) { r.MessageID = v },
	"caller_number":        func(r *analysis.RawRow, v string) { r.CallerNumber = v },
	"voapps_caller_number": func(r *analysis.RawRow, v string) { r.VoappsCallerNumber = v },
	"account_id":           func(r *analysis.RawRow, v string) { r.AccountID = v },
	"campaign_id":          func(r *analysis.RawRow, v string) { r.CampaignID = v },
	"campaign_name":        func(r *analysis.RawRow, v string) { r.CampaignName = v },
}

// ReadFile reads a delivery-record CSV file into raw rows.
func ReadFile(path string) ([]analysis.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses delivery records from r. The first line is the header; rows
// with the wrong field count are skipped rather than failing the whole file.
func Read(r io.Reader) ([]analysis.RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	setters := make([]func(*analysis.RawRow, string), len(header))
	matched := 0
	for i, name := range header {
		key := normalizeHeader(name)
		if set, ok := columnSetters[key]; ok {
			setters[i] = set
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("no recognized columns in header %v", header)
	}

	var rows []analysis.RawRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line is a per-row problem, not a file problem.
			continue
		}

		var row analysis.RawRow
		for i, value := range record {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// normalizeHeader lowercases a header cell and squashes spaces and dashes to
// underscores, so "Phone Number" and "phone-number" both match phone_number.
func normalizeHeader(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return strings.TrimPrefix(s, "\ufeff")
}
