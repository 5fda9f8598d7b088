// Package export drops the configured sensitive columns and serializes the
// final table to CSV.
package export

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"

	"echo-deidentifier/internal/table"
)

// Prune removes every column whose normalized name matches one of the remove
// targets, from the column list and from every row. A header can carry the
// same sensitive name under several raw spellings; all of them must go, not
// just the first one resolved. It is the only stage allowed to change the
// column set. Returns the rebuilt table and the raw names of the columns
// actually removed.
func Prune(t *table.Table, remove []string) (*table.Table, []string) {
	targets := make(map[string]bool, len(remove))
	for _, target := range remove {
		targets[table.Normalize(target)] = true
	}

	drop := make(map[string]bool)
	var removed []string
	for _, c := range t.Columns {
		if targets[table.Normalize(c)] && !drop[c] {
			drop[c] = true
			removed = append(removed, c)
		}
	}

	out := table.New(nil)
	for _, c := range t.Columns {
		if !drop[c] {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, r := range t.Rows {
		nr := make(table.Row, len(r))
		for k, v := range r {
			if !drop[k] {
				nr[k] = v
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out, removed
}

// utf8BOM keeps downstream spreadsheet tools from misreading the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes the table: UTF-8 with BOM, comma separated, every
// field quoted, one header row then one line per row. Absent and null cells
// become empty quoted fields. The stdlib csv writer only quotes fields that
// need it, so quoting is done here.
func WriteCSV(w io.Writer, t *table.Table) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(utf8BOM); err != nil {
		return err
	}

	writeLine := func(fields []string) error {
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('"'); err != nil {
				return err
			}
			if _, err := bw.WriteString(strings.ReplaceAll(f, `"`, `""`)); err != nil {
				return err
			}
			if err := bw.WriteByte('"'); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeLine(t.Columns); err != nil {
		return err
	}

	fields := make([]string, len(t.Columns))
	for _, r := range t.Rows {
		for i, c := range t.Columns {
			fields[i] = r[c].Text()
		}
		if err := writeLine(fields); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// OutputName maps the input filename to the export filename: same basename,
// extension replaced by .csv.
func OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".csv"
}
