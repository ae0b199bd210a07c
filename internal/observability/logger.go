package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	logger zerolog.Logger
}

// NewLogger creates a new structured logger.
func NewLogger(service, version string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(output).With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("host", getHostname()).
		Logger()

	return &Logger{
		logger: logger,
	}
}

// WithSession adds session_id context to logger.
func (l *Logger) WithSession(sessionID string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("session_id", sessionID).Logger(),
	}
}

// WithSnapshot adds snapshot_id context to logger.
func (l *Logger) WithSnapshot(snapshotID string) *Logger {
	return &Logger{
		logger: l.logger.With().Str("snapshot_id", snapshotID).Logger(),
	}
}

// WithFile adds file context to logger.
func (l *Logger) WithFile(filePath string, fileSize int64) *Logger {
	return &Logger{
		logger: l.logger.With().
			Str("file_path", filePath).
			Int64("file_size", fileSize).
			Logger(),
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.logger.Debug().Msg(msg)
}

// Info logs an info message.
func (l *Logger) Info(msg string) {
	l.logger.Info().Msg(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.logger.Warn().Msg(msg)
}

// Error logs an error message.
func (l *Logger) Error(err error, msg string) {
	l.logger.Error().Err(err).Msg(msg)
}

// Fatal logs a fatal message and exits.
func (l *Logger) Fatal(err error, msg string) {
	l.logger.Fatal().Err(err).Msg(msg)
}

// WalkCompleted logs the walk stage finishing for a snapshot root.
func (l *Logger) WalkCompleted(snapshotID, root string, pathCount int, elapsed time.Duration) {
	l.logger.Info().
		Str("snapshot_id", snapshotID).
		Str("root", root).
		Int("path_count", pathCount).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("walk completed")
}

// ChunkCut logs one chunk boundary found by the chunking stage.
func (l *Logger) ChunkCut(snapshotID, relPath string, chunkIndex int, length int64) {
	l.logger.Debug().
		Str("snapshot_id", snapshotID).
		Str("path", relPath).
		Int("chunk_index", chunkIndex).
		Int64("length", length).
		Msg("chunk cut")
}

// PackAssembled logs a pack reaching its target size and moving to
// preparation.
func (l *Logger) PackAssembled(packID string, chunkCount int, size int64) {
	l.logger.Info().
		Str("pack_id", packID).
		Int("chunk_count", chunkCount).
		Int64("size", size).
		Msg("pack assembled")
}

// PackPrepared logs a pack finishing hashing, compression, encryption, and
// ECC armoring.
func (l *Logger) PackPrepared(packID string, rawSize, finalSize int64, elapsed time.Duration) {
	l.logger.Info().
		Str("pack_id", packID).
		Int64("raw_size", rawSize).
		Int64("final_size", finalSize).
		Float64("elapsed_seconds", elapsed.Seconds()).
		Msg("pack prepared")
}

// PackPrepareFailed logs a pack failing preparation, and the error that
// will be stamped onto every path with a chunk in that pack.
func (l *Logger) PackPrepareFailed(packID string, err error) {
	l.logger.Error().
		Str("pack_id", packID).
		Err(err).
		Msg("pack preparation failed")
}

// PackStored logs a prepared pack being handed off to the storage sink.
func (l *Logger) PackStored(packID string, size int64) {
	l.logger.Info().
		Str("pack_id", packID).
		Int64("size", size).
		Msg("pack stored")
}

// Helper function to get hostname.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
