package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/constants"
	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/tune"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the decoder over http",
	Long:  `Serves the decoder over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: detail})
}

// HandleDecode decodes every chart in the posted url. Per-chart failures
// come back inline so one bad chart doesn't hide the rest of a playlist.
func HandleDecode(w http.ResponseWriter, r *http.Request) {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, 400, "could not read request body")
		return
	}
	var input model.DecodeRequestBody
	if err := json.Unmarshal(reqBody, &input); err != nil {
		writeError(w, 400, "could not unmarshal request body: "+err.Error())
		return
	}

	results, playlist, err := tune.DecodeURL(input.URL, nil)
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	resp := model.DecodeResponse{Playlist: playlist, NumTunes: len(results)}
	for _, res := range results {
		var tr model.TuneResult
		if res.Err != nil {
			tr.Error = res.Err.Error()
			resp.Tunes = append(resp.Tunes, tr)
			continue
		}
		meta := res.Tune.Metadata
		tr.ID = meta.ID
		tr.Title = meta.Title
		tr.Artists = meta.Composer
		tr.Genre = meta.Style
		tr.Tempo = meta.BPM
		tr.Key = meta.Key
		tr.TimeSignature = fmt.Sprintf("%d/%d", meta.TimeSignature.Numerator, meta.TimeSignature.Denominator)
		tr.Measures = res.Tune.Measures
		tr.Warnings = res.Tune.Diagnostics.Warnings

		chords, keys, timesigs, err := tune.Events(res.Tune)
		if err != nil {
			tr.Error = err.Error()
			resp.Tunes = append(resp.Tunes, tr)
			continue
		}
		tr.Chords = chords
		tr.Keys = keys
		tr.TimeSignatures = timesigs
		resp.Tunes = append(resp.Tunes, tr)
	}
	json.NewEncoder(w).Encode(resp)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/decode", HandleDecode).Methods("POST")

	handler := cors.Default().Handler(router)
	addr := ":" + constants.GetPort()
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
