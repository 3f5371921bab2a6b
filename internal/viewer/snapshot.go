package viewer

import (
	"opensynth/internal/catalog"
	"opensynth/internal/quiz"
)

// Snapshot is a point-in-time copy of a view for presentation.
type Snapshot struct {
	ViewID      string          `json:"viewId"`
	SynthesisID string          `json:"synthesisId,omitempty"`
	State       State           `json:"state"`
	Meta        *catalog.Meta   `json:"meta,omitempty"`
	Heading     string          `json:"heading,omitempty"`
	Position    int             `json:"position"`
	Total       int             `json:"total"`
	StepID      int             `json:"stepId,omitempty"`
	CanPrev     bool            `json:"canPrev"`
	CanNext     bool            `json:"canNext"`
	Fields      []quiz.Field    `json:"fields,omitempty"`
	Revealed    []quiz.Category `json:"revealed,omitempty"`
	Settings    quiz.Settings   `json:"settings"`
}

func (v *View) snapshotLocked() Snapshot {
	snap := Snapshot{
		ViewID:      v.id,
		SynthesisID: v.synthesisID,
		State:       v.state,
		Settings:    v.prefs.Current(),
	}
	if v.record != nil {
		meta := v.record.Meta
		snap.Meta = &meta
	}
	if v.player == nil {
		return snap
	}
	snap.Heading = v.player.Heading()
	snap.Position = v.player.Position()
	snap.Total = v.player.Len()
	snap.StepID = v.player.Current().StepID
	snap.CanPrev = v.player.CanPrev()
	snap.CanNext = v.player.CanNext()
	snap.Fields = v.player.Fields()
	revealed := v.player.Controller().Revealed()
	for _, c := range quiz.Categories {
		if revealed[c] {
			snap.Revealed = append(snap.Revealed, c)
		}
	}
	return snap
}
