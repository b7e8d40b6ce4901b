package contracts

import "context"

// RecordingArchiver copies provider-hosted call recordings into object
// storage so they survive provider retention windows.
type RecordingArchiver interface {
	Enqueue(ctx context.Context, caseID string, recordingURL string) error
	ProcessNext(ctx context.Context) (bool, error)
}
