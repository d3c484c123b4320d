package cli

import (
	"log/slog"
	"os"
)

// slogObserver implements opacity.Observer by emitting structured log
// events rather than interleaving log calls with the cryptography itself.
// It never receives key material — the core's contract guarantees that.
type slogObserver struct {
	logger *slog.Logger
}

func newSlogObserver(jsonFormat bool) *slogObserver {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return &slogObserver{logger: slog.New(handler)}
}

func (o *slogObserver) OnStateChange(state string) {
	o.logger.Info("handshake state transition", "state", state)
}

func (o *slogObserver) OnError(state string, err error) {
	o.logger.Error("handshake failed", "state", state, "error", err)
}
