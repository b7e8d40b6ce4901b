package sweeper

import (
	"context"
	"testing"
	"time"

	"smarthealth-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLocker struct {
	deny    bool
	locks   int
	unlocks int
}

func (s *stubLocker) TryLock(_ context.Context, _ string, _ time.Duration) (bool, string, error) {
	if s.deny {
		return false, "", nil
	}
	s.locks++
	return true, "lock-value", nil
}

func (s *stubLocker) Unlock(_ context.Context, _, _ string) error {
	s.unlocks++
	return nil
}

type stubCallQueueRepo struct {
	timeoutCutoff time.Time
	timedOut      int
}

func (s *stubCallQueueRepo) Create(_ context.Context, _ *models.CallQueueEntry) (string, error) {
	return "", nil
}

func (s *stubCallQueueRepo) FindByID(_ context.Context, _ string) (*models.CallQueueEntry, error) {
	return nil, nil
}

func (s *stubCallQueueRepo) FindByCallSessionID(_ context.Context, _ string) (*models.CallQueueEntry, error) {
	return nil, nil
}

func (s *stubCallQueueRepo) AcceptIfPending(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (s *stubCallQueueRepo) RejectIfPending(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (s *stubCallQueueRepo) Complete(_ context.Context, _ string, _ int) error { return nil }

func (s *stubCallQueueRepo) TimeoutPending(_ context.Context, olderThan time.Time) (int, error) {
	s.timeoutCutoff = olderThan
	return s.timedOut, nil
}

type stubOfferRepo struct {
	deleteCutoff time.Time
	deleted      int
}

func (s *stubOfferRepo) Create(_ context.Context, _ *models.Offer) (string, error) { return "", nil }

func (s *stubOfferRepo) GetActiveBySubscriber(_ context.Context, _ string) ([]models.Offer, error) {
	return nil, nil
}

func (s *stubOfferRepo) ApplyIfUnapplied(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func (s *stubOfferRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.deleteCutoff = now
	return s.deleted, nil
}

type stubCaseRepo struct {
	cancelCutoff time.Time
	cancelled    int
}

func (s *stubCaseRepo) Create(_ context.Context, _ *models.Case) (string, error) { return "", nil }

func (s *stubCaseRepo) FindByID(_ context.Context, _ string) (*models.Case, error) { return nil, nil }

func (s *stubCaseRepo) AssignToDoctor(_ context.Context, _, _ string) error { return nil }

func (s *stubCaseRepo) UpdateStatus(_ context.Context, _ string, _ models.CaseStatus) error {
	return nil
}

func (s *stubCaseRepo) UpdateSymptoms(_ context.Context, _, _ string) error { return nil }

func (s *stubCaseRepo) SetRecording(_ context.Context, _, _ string) error { return nil }

func (s *stubCaseRepo) SetRecordingObjectKey(_ context.Context, _, _ string) error { return nil }

func (s *stubCaseRepo) GetBySubscriber(_ context.Context, _ string, _ int) ([]models.Case, error) {
	return nil, nil
}

func (s *stubCaseRepo) CountActiveByDoctor(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (s *stubCaseRepo) CancelStaleProvisional(_ context.Context, olderThan time.Time) (int, error) {
	s.cancelCutoff = olderThan
	return s.cancelled, nil
}

func TestRunOnceSweepsAllPasses(t *testing.T) {
	locker := &stubLocker{}
	queue := &stubCallQueueRepo{timedOut: 2}
	offers := &stubOfferRepo{deleted: 1}
	cases := &stubCaseRepo{cancelled: 3}

	worker := NewWorker(zap.NewNop(), locker, queue, offers, cases, time.Minute, 5*time.Minute, 24*time.Hour)
	worker.runOnce(context.Background())

	assert.Equal(t, 1, locker.locks)
	assert.Equal(t, 1, locker.unlocks)

	now := time.Now()
	assert.WithinDuration(t, now.Add(-5*time.Minute), queue.timeoutCutoff, 2*time.Second)
	assert.WithinDuration(t, now, offers.deleteCutoff, 2*time.Second)
	assert.WithinDuration(t, now.Add(-24*time.Hour), cases.cancelCutoff, 2*time.Second)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	locker := &stubLocker{deny: true}
	queue := &stubCallQueueRepo{}
	offers := &stubOfferRepo{}
	cases := &stubCaseRepo{}

	worker := NewWorker(zap.NewNop(), locker, queue, offers, cases, time.Minute, 5*time.Minute, 24*time.Hour)
	worker.runOnce(context.Background())

	assert.True(t, queue.timeoutCutoff.IsZero())
	assert.True(t, offers.deleteCutoff.IsZero())
	assert.True(t, cases.cancelCutoff.IsZero())
	assert.Zero(t, locker.unlocks)
}

func TestNewWorkerDefaults(t *testing.T) {
	worker := NewWorker(zap.NewNop(), &stubLocker{}, &stubCallQueueRepo{}, &stubOfferRepo{}, &stubCaseRepo{}, 0, 0, 0)
	assert.Equal(t, time.Minute, worker.interval)
	assert.Equal(t, 5*time.Minute, worker.queueTimeout)
	assert.Equal(t, 24*time.Hour, worker.provisionalTTL)
}

func TestStartStops(t *testing.T) {
	worker := NewWorker(zap.NewNop(), &stubLocker{}, &stubCallQueueRepo{}, &stubOfferRepo{}, &stubCaseRepo{}, time.Hour, 0, 0)
	stop := worker.Start(context.Background())
	stop()
}
