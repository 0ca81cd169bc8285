package model

type DecodeRequestBody struct {
	URL string `json:"url"`
}

type TuneResult struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Artists        string       `json:"artists"`
	Genre          string       `json:"genre"`
	Tempo          int          `json:"tempo"`
	Key            string       `json:"key"`
	TimeSignature  string       `json:"time_signature"`
	Measures       []string     `json:"measures"`
	Chords         []TimedEvent `json:"chords"`
	Keys           []TimedEvent `json:"keys"`
	TimeSignatures []TimedEvent `json:"time_signatures"`
	Warnings       []Diagnostic `json:"warnings,omitempty"`
	Error          string       `json:"error,omitempty"`
}

type DecodeResponse struct {
	Playlist string       `json:"playlist,omitempty"`
	NumTunes int          `json:"num_tunes"`
	Tunes    []TuneResult `json:"tunes"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
