package recording

import (
	"context"
	"log/slog"
)

// PasteLast вставляет последнюю расшифровку из истории.
type PasteLast struct {
	history  History
	injector Injector
}

// NewPasteLast создаёт действие вставки.
func NewPasteLast(h History, inj Injector) *PasteLast {
	return &PasteLast{history: h, injector: inj}
}

// Run берёт одну последнюю запись истории и вводит её текст. Пустая история и
// ошибки ввода не считаются ошибками действия, повторов нет.
func (p *PasteLast) Run(ctx context.Context) {
	slog.Info("PasteLast: вставка последней расшифровки")

	entries, err := p.history.Recent(ctx, 1)
	if err != nil {
		slog.Warn("PasteLast: не удалось прочитать историю", "error", err)
		return
	}
	if len(entries) == 0 {
		slog.Info("PasteLast: история пуста")
		return
	}

	if err := p.injector.Inject(entries[0].Text); err != nil {
		slog.Warn("PasteLast: не удалось вставить текст", "error", err)
	}
}
