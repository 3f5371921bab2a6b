package api

import (
	"opensynth/internal/catalog"
	"opensynth/internal/quiz"
)

// FromIndexEntry converts an index entry into its DTO.
func FromIndexEntry(entry catalog.IndexEntry) SynthesisSummary {
	return SynthesisSummary{
		ID:           entry.ID,
		MoleculeName: entry.MoleculeName,
		Author:       entry.Author,
		Year:         entry.Year,
		Class:        entry.Class,
		StepCount:    entry.StepCount,
	}
}

// FromIndexEntries converts a slice, never returning nil.
func FromIndexEntries(entries []catalog.IndexEntry) []SynthesisSummary {
	out := make([]SynthesisSummary, 0, len(entries))
	for _, entry := range entries {
		out = append(out, FromIndexEntry(entry))
	}
	return out
}

// FromRecord converts a record resolved for id.
func FromRecord(id string, record *catalog.Record) SynthesisDetail {
	detail := SynthesisDetail{ID: id, Sequence: []catalog.Step{}}
	if record == nil {
		return detail
	}
	detail.Meta = record.Meta
	if record.Sequence != nil {
		detail.Sequence = record.Sequence
	}
	return detail
}

// FromSettings converts settings, listing hidden categories in display order.
func FromSettings(settings quiz.Settings) QuizSettings {
	out := QuizSettings{Settings: make(map[string]bool, len(quiz.Categories)), Hidden: []string{}}
	for _, c := range quiz.Categories {
		hidden := settings.Hidden(c)
		out.Settings[string(c)] = hidden
		if hidden {
			out.Hidden = append(out.Hidden, string(c))
		}
	}
	return out
}
