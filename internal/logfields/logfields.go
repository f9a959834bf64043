package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCategory   = "category"
	KeyFeature    = "feature"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyCount      = "count"
	KeyPackage    = "package"
	KeyVersion    = "version"
	KeyCommand    = "command"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Category(c string) slog.Attr { return slog.String(KeyCategory, c) }
func Feature(title string) slog.Attr { return slog.String(KeyFeature, title) }
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func File(f string) slog.Attr { return slog.String(KeyFile, f) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func Package(name string) slog.Attr { return slog.String(KeyPackage, name) }
func Version(v string) slog.Attr { return slog.String(KeyVersion, v) }
func Command(argv []string) slog.Attr { return slog.Any(KeyCommand, argv) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
