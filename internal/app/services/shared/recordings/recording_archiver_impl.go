package recordings

import (
	"context"
	"fmt"
	"net/http"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	recordingArchiverInstance contracts.RecordingArchiver
	onceRecordingArchiver     sync.Once
)

type archiveJob struct {
	CaseID       string `json:"case_id"`
	RecordingURL string `json:"recording_url"`
}

type recordingArchiver struct {
	redisRepo  contracts.RedisRepository
	caseRepo   contracts.CaseRepository
	Minio      *minio.Client
	Bucket     string
	QueueKey   string
	HttpClient *http.Client
	Log        *zap.Logger
}

// NewRecordingArchiver copies provider-hosted recordings into the archive
// bucket. Enqueue pushes a job onto a redis list; the worker drains it with
// ProcessNext.
func NewRecordingArchiver(redisRepo contracts.RedisRepository, caseRepo contracts.CaseRepository, minioClient *minio.Client, bucket, queueKey string, logger *zap.Logger) contracts.RecordingArchiver {
	onceRecordingArchiver.Do(func() {
		instance := &recordingArchiver{
			redisRepo: redisRepo,
			caseRepo:  caseRepo,
			Minio:     minioClient,
			Bucket:    bucket,
			QueueKey:  queueKey,
			HttpClient: &http.Client{
				Timeout: 60 * time.Second,
			},
			Log: logger,
		}
		recordingArchiverInstance = instance
	})
	return recordingArchiverInstance
}

func (a *recordingArchiver) Enqueue(ctx context.Context, caseID string, recordingURL string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	a.Log.Info("recordingArchiver.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCaseIDKey, caseID),
	)

	job, err := json.Marshal(archiveJob{CaseID: caseID, RecordingURL: recordingURL})
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return a.redisRepo.PushToList(ctx, a.QueueKey, string(job))
}

// ProcessNext pops one job and archives it. It reports false when the queue
// was empty.
func (a *recordingArchiver) ProcessNext(ctx context.Context) (bool, error) {
	data, err := a.redisRepo.PopFromList(ctx, a.QueueKey)
	if err != nil {
		return false, err
	}
	if data == "" {
		return false, nil
	}

	var job archiveJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		a.Log.Error("recordingArchiver.ProcessNext dropping malformed job",
			zap.Error(err))
		return true, nil
	}

	objectKey, err := a.archive(ctx, job)
	if err != nil {
		a.Log.Error("recordingArchiver.ProcessNext archive failed",
			zap.String(constvars.LoggingCaseIDKey, job.CaseID),
			zap.Error(err))
		return true, err
	}

	if err := a.caseRepo.SetRecordingObjectKey(ctx, job.CaseID, objectKey); err != nil {
		return true, err
	}

	a.Log.Info("recordingArchiver.ProcessNext archived recording",
		zap.String(constvars.LoggingCaseIDKey, job.CaseID),
		zap.String(constvars.LoggingObjectKeyKey, objectKey),
	)
	return true, nil
}

func (a *recordingArchiver) archive(ctx context.Context, job archiveJob) (string, error) {
	req, err := http.NewRequestWithContext(ctx, constvars.MethodGet, job.RecordingURL, nil)
	if err != nil {
		return "", exceptions.ErrRecordingDownload(err)
	}

	resp, err := a.HttpClient.Do(req)
	if err != nil {
		return "", exceptions.ErrRecordingDownload(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", exceptions.ErrRecordingDownload(fmt.Errorf("recording host returned status %d", resp.StatusCode))
	}

	contentType := resp.Header.Get(constvars.HeaderContentType)
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	objectKey := fmt.Sprintf("recordings/%s/%d", job.CaseID, time.Now().UnixMilli())
	_, err = a.Minio.PutObject(ctx, a.Bucket, objectKey, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", exceptions.ErrMinioUploadObject(err)
	}
	return objectKey, nil
}
