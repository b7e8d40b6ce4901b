package sessions

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"smarthealth-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	sessionServiceInstance contracts.SessionService
	onceSessionService     sync.Once
)

type sessionService struct {
	redisRepo contracts.RedisRepository
	Log       *zap.Logger
	ttl       time.Duration
}

// NewSessionService stores sessions in redis under the channel-issued
// identifier. Save refreshes the TTL so an active conversation never
// expires mid-flow.
func NewSessionService(repo contracts.RedisRepository, logger *zap.Logger, ttl time.Duration) contracts.SessionService {
	onceSessionService.Do(func() {
		instance := &sessionService{
			redisRepo: repo,
			Log:       logger,
			ttl:       ttl,
		}
		sessionServiceInstance = instance
	})
	return sessionServiceInstance
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := s.redisRepo.Get(ctx, constvars.RedisKeySession+sessionID)
	if err != nil {
		return nil, err
	}
	if data == "" {
		return nil, nil
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return &session, nil
}

func (s *sessionService) Save(ctx context.Context, session *models.Session) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	session.UpdatedAt = time.Now()

	s.Log.Debug("sessionService.Save called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
		zap.String(constvars.LoggingStepKey, string(session.Step)),
	)
	return s.redisRepo.Set(ctx, constvars.RedisKeySession+session.SessionID, session, s.ttl)
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	return s.redisRepo.Delete(ctx, constvars.RedisKeySession+sessionID)
}
