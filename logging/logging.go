// Package logging builds the application's slog loggers: compact JSON for
// production deploy logs, pretty-printed JSON for local development.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"
)

// PrettyJSONHandler indents each record so development logs are readable.
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

func newPrettyJSONHandler(w io.Writer) *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(w, nil),
		writer:      w,
	}
}

// New returns a logger writing to w in the given format: "pretty" for
// indented development output, anything else for compact JSON.
func New(w io.Writer, format string) *slog.Logger {
	if format == "pretty" {
		return slog.New(newPrettyJSONHandler(w))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// Default returns the production logger on stdout, where deploy tooling
// collects migration progress lines.
func Default(format string) *slog.Logger {
	return New(os.Stdout, format)
}
