// Package logging provides structured logging helpers built on log/slog.
//
// It defines canonical attribute keys used throughout the pipeline (stage,
// strategy, file_id, ...) together with attribute constructor helpers so that
// log output stays consistent across packages. Setup installs the
// process-wide default handler.
package logging
