package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/dialops/dropscope/internal/analysis"
)

// exportColumns is the canonical column order for written exports. Only
// primary column names are emitted; alias columns are an import concern.
var exportColumns = []string{
	"number", "timestamp", "result",
	"message_id", "caller_number", "account_id",
	"campaign_id", "campaign_name",
}

// WriteFile writes rows to path as a CSV that ReadFile can round-trip.
func WriteFile(path string, rows []analysis.RawRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write emits rows as CSV. Aliased fields collapse into the primary column
// using the same fallback order the analysis normalizer applies.
func Write(w io.Writer, rows []analysis.RawRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			coalesce(r.Number, r.PhoneNumber),
			coalesce(r.VoappsTimestamp, r.Timestamp),
			coalesce(r.VoappsResult, r.Result),
			r.MessageID,
			coalesce(r.CallerNumber, r.VoappsCallerNumber),
			r.AccountID,
			r.CampaignID,
			r.CampaignName,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
