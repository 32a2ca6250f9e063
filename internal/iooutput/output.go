// Package iooutput writes taxonomy rows and reports of failed names to
// files.
package iooutput

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/gnames/sp2tax/pkg/sp2tax"
	"github.com/gnames/sp2tax/pkg/taxonomy"
)

// Output is a JSON representation of a row.
type Output struct {
	// ID is UUID v5 of the input name.
	ID string `json:"id"`
	// Input is the name from the species list.
	Input string `json:"input"`
	// TaxonID is NCBI taxonomy identifier of the row.
	TaxonID int `json:"taxonId"`
	// Classification contains names of requested ranks.
	Classification []RankName `json:"classification"`
}

// RankName is a name at a rank.
type RankName struct {
	Rank string `json:"rank"`
	Name string `json:"name"`
}

// WriteTable writes rows to path, creating or truncating it. The
// ranks are the header of CSV/TSV output and the keys of JSON output.
// Unknown formats fall back to TSV.
func WriteTable(
	path string,
	f gnfmt.Format,
	ranks []string,
	rows []taxonomy.Row,
) error {
	out, err := os.Create(path)
	if err != nil {
		return WriteError(path, err)
	}

	w := bufio.NewWriter(out)
	switch f {
	case gnfmt.CSV:
		err = writeDelimited(w, ',', ranks, rows)
	case gnfmt.CompactJSON, gnfmt.PrettyJSON:
		err = writeJSON(w, f == gnfmt.PrettyJSON, ranks, rows)
	default:
		err = writeDelimited(w, '\t', ranks, rows)
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return WriteError(path, err)
	}
	return nil
}

func writeDelimited(
	w io.Writer,
	sep rune,
	ranks []string,
	rows []taxonomy.Row,
) error {
	if _, err := io.WriteString(w, csvLine(ranks, sep)); err != nil {
		return err
	}
	for _, v := range rows {
		if _, err := io.WriteString(w, csvLine(v.Names, sep)); err != nil {
			return err
		}
	}
	return nil
}

// csvLine encodes fields, quoting only when a field has the separator,
// quotes or new lines.
func csvLine(fields []string, sep rune) string {
	if len(fields) == 0 {
		return "\n"
	}
	return strings.TrimRight(gnfmt.ToCSV(fields, sep), "\r\n") + "\n"
}

func writeJSON(
	w io.Writer,
	pretty bool,
	ranks []string,
	rows []taxonomy.Row,
) error {
	res := make([]Output, len(rows))
	for i, v := range rows {
		res[i] = toOutput(ranks, v)
	}

	enc := gnfmt.GNjson{Pretty: pretty}
	data, err := enc.Encode(res)
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func toOutput(ranks []string, row taxonomy.Row) Output {
	res := Output{
		ID:             gnuuid.New(row.Input).String(),
		Input:          row.Input,
		TaxonID:        int(row.TaxID),
		Classification: make([]RankName, len(ranks)),
	}
	for i, rank := range ranks {
		name := taxonomy.Sentinel
		if i < len(row.Names) {
			name = row.Names[i]
		}
		res.Classification[i] = RankName{Rank: rank, Name: name}
	}
	return res
}

// WriteFailures writes a tab-separated report with 'input' and
// 'reason' columns.
func WriteFailures(path string, failures []sp2tax.Failure) error {
	out, err := os.Create(path)
	if err != nil {
		return FailFileError(path, err)
	}

	w := bufio.NewWriter(out)
	_, err = io.WriteString(w, csvLine([]string{"input", "reason"}, '\t'))
	for _, v := range failures {
		if err != nil {
			break
		}
		reason := v.Reason
		if v.TaxID > 0 {
			reason += " (taxon " + strconv.Itoa(int(v.TaxID)) + ")"
		}
		_, err = io.WriteString(w, csvLine([]string{v.Input, reason}, '\t'))
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return FailFileError(path, err)
	}
	return nil
}
