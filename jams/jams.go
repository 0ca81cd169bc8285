// Package jams writes decoded tunes as JAMS-style annotation documents:
// plain JSON with file metadata and one annotation per namespace.
package jams

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/tune"
)

const (
	NamespaceChords  = "chord_ireal"
	NamespaceKeys    = "key_mode"
	NamespaceTimeSig = "timesig"
)

type FileMetadata struct {
	Title       string            `json:"title"`
	Artist      string            `json:"artist"`
	Duration    float64           `json:"duration"`
	Genre       string            `json:"genre"`
	Identifiers map[string]string `json:"identifiers,omitempty"`
}

type AnnotationMetadata struct {
	AnnotatorType   string  `json:"annotator_type"`
	Version         float64 `json:"annotation_version"`
	AnnotationTools string  `json:"annotation_tools"`
	DataSource      string  `json:"data_source"`
}

type Annotation struct {
	Namespace string             `json:"namespace"`
	Metadata  AnnotationMetadata `json:"annotation_metadata"`
	Data      []model.TimedEvent `json:"data"`
}

type Document struct {
	FileMetadata FileMetadata   `json:"file_metadata"`
	Annotations  []Annotation   `json:"annotations"`
	Sandbox      map[string]any `json:"sandbox,omitempty"`
}

var crowdsourced = AnnotationMetadata{
	AnnotatorType:   "crowdsource",
	Version:         1.0,
	AnnotationTools: "https://www.irealpro.com",
	DataSource:      "iReal Pro",
}

// FromTune builds the JAMS document for one decoded tune. Duration is
// counted in measures, the convention the consuming dataset expects.
func FromTune(t *model.Tune) (*Document, error) {
	chords, keys, timesigs, err := tune.Events(t)
	if err != nil {
		return nil, err
	}

	doc := Document{
		FileMetadata: FileMetadata{
			Title:    t.Metadata.Title,
			Artist:   t.Metadata.Composer,
			Duration: float64(len(t.Measures)),
			Genre:    t.Metadata.Style,
		},
		Annotations: []Annotation{
			{Namespace: NamespaceChords, Metadata: crowdsourced, Data: chords},
			{Namespace: NamespaceKeys, Metadata: crowdsourced, Data: keys},
			{Namespace: NamespaceTimeSig, Metadata: crowdsourced, Data: timesigs},
		},
		Sandbox: map[string]any{"tempo": t.Metadata.BPM},
	}
	if len(t.Diagnostics.Warnings) > 0 {
		doc.Sandbox["warnings"] = t.Diagnostics.Warnings
	}
	return &doc, nil
}

func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode jams document")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0666), "could not save %v", path)
}
