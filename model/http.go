package model

type TransposeRequestBody struct {
	Input   string `json:"input"`
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
}

type TransposeResponse struct {
	Output    string `json:"output"`
	Semitones int    `json:"semitones"`
}

type LocalizeRequestBody struct {
	Input    string `json:"input"`
	Language string `json:"language"`
}

type LocalizeResponse struct {
	Output string `json:"output"`
}

type ExportRequestBody struct {
	Analysis
	Title         string `json:"title,omitempty"`
	Artist        string `json:"artist,omitempty"`
	Quantized     bool   `json:"quantized,omitempty"`
	IncludeBass   bool   `json:"include_bass,omitempty"`
	Timed         bool   `json:"timed,omitempty"`
	IncludeLyrics bool   `json:"include_lyrics,omitempty"`
	Lyrics        string `json:"lyrics,omitempty"`
	Language      string `json:"language,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
