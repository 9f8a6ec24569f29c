// Package report renders project summaries as YAML.
package report

import (
	"io"
	"os"

	"github.com/forPelevin/mdlv/internal/domain/project"
	"github.com/forPelevin/mdlv/internal/types"
	"gopkg.in/yaml.v3"
)

// Build lists the project's filters with their effective ranges. Stream and
// script fields are left for the caller to fill in.
func Build(projectPath string, d *project.Data) types.Summary {
	s := types.Summary{
		Project:      projectPath,
		Movie:        d.MoviePath,
		AffectsAudio: d.Filters.AffectsAudio(),
		NeedsReview:  d.Filters.HasReview(),
		Filters:      []types.SummaryFilter{},
	}
	entries := d.Filters.Entries()
	for i, e := range entries {
		sf := types.SummaryFilter{Start: e.Start, Type: e.Filter.Type().String()}
		if i+1 < len(entries) {
			end := entries[i+1].Start
			sf.End = &end
		}
		if r, ok := e.Filter.Rect(); ok {
			sf.X, sf.Y, sf.W, sf.H = &r.X, &r.Y, &r.Width, &r.Height
		}
		s.Filters = append(s.Filters, sf)
	}
	return s
}

func Write(w io.Writer, s types.Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

func WriteFile(path string, s types.Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func ReadFile(path string) (types.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Summary{}, err
	}
	var s types.Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return types.Summary{}, err
	}
	return s, nil
}
