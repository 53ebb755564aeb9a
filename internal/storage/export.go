package storage

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/opsdesk/instascrape/internal/domain"
)

// WriteCSV serializes a snapshot in sheet column order: header row first,
// then one record per row with missing cells left empty.
func WriteCSV(w io.Writer, snap domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snap.Columns); err != nil {
		return err
	}
	record := make([]string, len(snap.Columns))
	for _, row := range snap.Rows {
		for i, col := range snap.Columns {
			record[i] = row[col]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename embeds the download moment so successive exports don't
// clobber each other in the operator's downloads folder.
func ExportFilename(t time.Time) string {
	return "instagram_posts_" + t.Format("20060102_150405") + ".csv"
}
