package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/opsdesk/instascrape/internal/domain"
)

// LoadAccounts reads the preset accounts roster used to prefill the form.
// One account per line after a header row; invalid handles are skipped
// (fail-soft) rather than aborting the load.
func LoadAccounts(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	var accounts []string
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue // Skip header
		}
		if len(record) == 0 {
			continue
		}

		// Validation (Fail-Soft)
		account := domain.NormalizeUsername(record[0])
		if !domain.ValidUsername(account) {
			continue
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
