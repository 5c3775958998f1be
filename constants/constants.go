package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetSQLitePath() string {
	path := os.Getenv("SQLITE_PATH")
	if path != "" {
		return path
	}
	return "chords.db"
}

const ProductName = "chordex"

// file names written by generate
const (
	CatalogSQLFile  = "piano_chords.sql"
	CatalogJSONFile = "piano_chords.json"
)
