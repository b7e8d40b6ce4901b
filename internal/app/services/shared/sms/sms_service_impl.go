package sms

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/services/shared/smsqueue"
	"smarthealth-service/internal/pkg/constvars"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	smsServiceInstance contracts.SMSService
	onceSMSService     sync.Once
)

type smsService struct {
	Queue *smsqueue.Service
	Log   *zap.Logger
}

// NewSMSService returns the queue-backed sender. Send only enqueues; the
// worker owns delivery and retries.
func NewSMSService(queue *smsqueue.Service, logger *zap.Logger) contracts.SMSService {
	onceSMSService.Do(func() {
		instance := &smsService{
			Queue: queue,
			Log:   logger,
		}
		smsServiceInstance = instance
	})
	return smsServiceInstance
}

func (s *smsService) Send(ctx context.Context, phone, message string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("smsService.Send called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPhoneKey, phone),
	)

	return s.Queue.Enqueue(ctx, smsqueue.SMSQueueMessage{
		ID:      uuid.NewString(),
		Phone:   phone,
		Message: message,
	})
}
