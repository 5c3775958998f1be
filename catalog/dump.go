package catalog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jsphweid/chordex/model"
)

const insertColumns = "chord_name, key_signature, difficulty, notes, finger_positions, description, inversion, root_name, chord_type, root_note, intervals, chord_name_fr, description_fr"

// WriteSQL writes a script that replaces the contents of
// public.piano_chords with rows.
func WriteSQL(w io.Writer, rows []model.CatalogRow) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "-- Clear existing chords")
	fmt.Fprintln(bw, "DELETE FROM public.piano_chords;")
	if len(rows) == 0 {
		return bw.Flush()
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "-- Insert all piano chords with inversions")
	fmt.Fprintf(bw, "INSERT INTO public.piano_chords (%s) VALUES\n", insertColumns)

	for i, row := range rows {
		fingers, err := json.Marshal(row.FingerPositions)
		if err != nil {
			return err
		}
		end := ","
		if i == len(rows)-1 {
			end = ";"
		}
		fmt.Fprintf(bw, "  (%s, %s, %s, %s, %s::jsonb, %s, %d, %s, %s, %s, %s, %s, %s)%s\n",
			quote(row.ChordName),
			quote(row.KeySignature),
			quote(row.Difficulty),
			textArray(row.Notes),
			quote(string(fingers)),
			quote(row.Description),
			row.Inversion,
			quote(row.RootName),
			nullable(row.ChordType),
			nullable(row.RootNote),
			intArray(row.Intervals),
			nullable(row.ChordNameFr),
			nullable(row.DescriptionFr),
			end,
		)
	}
	return bw.Flush()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

func textArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return "ARRAY[" + strings.Join(quoted, ", ") + "]"
}

func intArray(values []int) string {
	if values == nil {
		return "NULL"
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return "ARRAY[" + strings.Join(parts, ", ") + "]::integer[]"
}

type jsonDump struct {
	Total  int                `json:"total"`
	Chords []model.CatalogRow `json:"chords"`
}

func WriteJSON(w io.Writer, rows []model.CatalogRow) error {
	if rows == nil {
		rows = []model.CatalogRow{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDump{Total: len(rows), Chords: rows})
}

// ReadJSON reads a dump written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.CatalogRow, error) {
	var dump jsonDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("decoding catalog dump: %w", err)
	}
	return dump.Chords, nil
}
