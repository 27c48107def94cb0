package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// ErrNothingToExport is returned for an empty item list; no file is written.
var ErrNothingToExport = errors.New("nothing to export")

// WriteCSV writes the header and one line per item. Every field is quoted,
// embedded quotes are doubled and lines end with a bare "\n".
func WriteCSV[T any](w io.Writer, table Table[T], items []T) error {
	if len(items) == 0 {
		return ErrNothingToExport
	}

	bw := bufio.NewWriter(w)
	if err := writeLine(bw, table.Headers); err != nil {
		return err
	}
	for i, it := range items {
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
		if err := writeLine(bw, table.Row(it)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(quote(cell)); err != nil {
			return err
		}
	}
	return nil
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// FileName returns base_YYYY-MM-DD.csv for the date of now.
func FileName(base string, now time.Time) string {
	if base == "" {
		base = "dados"
	}
	return fmt.Sprintf("%s_%s.csv", base, now.Format("2006-01-02"))
}
