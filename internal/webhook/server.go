// Package webhook receives Bot API updates over HTTP.
package webhook

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	tele "gopkg.in/telebot.v4"

	"reportbot/core/logger"
)

// UpdateSink consumes decoded Bot API updates. *tele.Bot satisfies it.
type UpdateSink interface {
	ProcessUpdate(u tele.Update)
}

// NewHandler builds the webhook HTTP handler. The POST endpoint always
// answers 200 so the Bot API never re-delivers an update we already read;
// malformed payloads are logged and dropped. GET answers a liveness probe.
func NewHandler(sink UpdateSink) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Bot server is running"))
	})

	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			logger.Warn(req.Context(), "web", "webhook.read_failed", slog.String("err", err.Error()))
			respondOK(w)
			return
		}

		var update tele.Update
		if err := json.Unmarshal(body, &update); err != nil {
			logger.Warn(req.Context(), "web", "webhook.decode_failed",
				slog.String("err", err.Error()),
				slog.Int("body_bytes", len(body)),
			)
			respondOK(w)
			return
		}

		logger.Debug(req.Context(), "web", "webhook.update", slog.Int("update_id", update.ID))
		sink.ProcessUpdate(update)
		respondOK(w)
	})

	return r
}

func respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
