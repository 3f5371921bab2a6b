package settingsstore

import (
	"context"

	"opensynth/internal/quiz"
)

// QuizPort persists quiz settings under a fixed key.
type QuizPort struct {
	store *Store
	key   string
}

// NewQuizPort returns a quiz.Port writing to key.
func NewQuizPort(store *Store, key string) *QuizPort {
	return &QuizPort{store: store, key: key}
}

func (p *QuizPort) Load(ctx context.Context) (quiz.Settings, bool, error) {
	raw, ok, err := p.store.Get(ctx, p.key)
	if err != nil || !ok {
		return nil, false, err
	}
	settings, err := quiz.UnmarshalSettings([]byte(raw))
	if err != nil {
		return nil, false, err
	}
	return settings, true, nil
}

func (p *QuizPort) Save(ctx context.Context, settings quiz.Settings) error {
	data, err := quiz.MarshalSettings(settings)
	if err != nil {
		return err
	}
	return p.store.Put(ctx, p.key, string(data))
}

// Clear removes the stored settings so defaults apply on next load.
func (p *QuizPort) Clear(ctx context.Context) error {
	return p.store.Delete(ctx, p.key)
}
