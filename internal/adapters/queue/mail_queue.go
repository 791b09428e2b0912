package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	customErrors "github.com/veloxcart/ecommerce-api/internal/domain/catalogue/errors"
	"github.com/veloxcart/ecommerce-api/internal/domain/catalogue/repo"
	"go.uber.org/zap"
)

// MailQueue is a Redis-list-backed outbound mail queue. Enqueue pushes the
// message durably; Run consumes it in the background with bounded retries
// and a fixed backoff. A message that exhausts its attempts is dropped with
// an error log, never silently.
type MailQueue struct {
	client      *redis.Client
	key         string
	mailer      repo.Mailer
	log         *zap.Logger
	maxAttempts int
	retryDelay  time.Duration
}

type envelope struct {
	Message  repo.MailMessage `json:"message"`
	Attempts int              `json:"attempts"`
}

func NewMailQueue(
	client *redis.Client,
	key string,
	mailer repo.Mailer,
	log *zap.Logger,
	maxAttempts int,
	retryDelay time.Duration,
) *MailQueue {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return &MailQueue{
		client:      client,
		key:         key,
		mailer:      mailer,
		log:         log,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
	}
}

func (q *MailQueue) Enqueue(ctx context.Context, msg repo.MailMessage) error {
	raw, err := json.Marshal(envelope{Message: msg})
	if err != nil {
		return customErrors.WrapInternal(err, "EnqueueMail")
	}
	if err := q.client.LPush(ctx, q.key, raw).Err(); err != nil {
		return customErrors.WrapStoreUnavailable(err)
	}
	return nil
}

// Run blocks consuming the queue until ctx is cancelled. It always returns
// nil on shutdown so it composes with errgroup without aborting siblings.
func (q *MailQueue) Run(ctx context.Context) error {
	for {
		res, err := q.client.BRPop(ctx, time.Second, q.key).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			q.log.Error("mail queue pop failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(res[1]), &env); err != nil {
			q.log.Error("dropping malformed mail envelope", zap.Error(err))
			continue
		}
		q.deliver(ctx, env)
	}
}

func (q *MailQueue) deliver(ctx context.Context, env envelope) {
	env.Attempts++

	err := q.mailer.Send(ctx, env.Message)
	if err == nil {
		q.log.Info("mail delivered",
			zap.String("to", env.Message.To),
			zap.String("subject", env.Message.Subject),
			zap.Int("attempt", env.Attempts),
		)
		return
	}

	if env.Attempts >= q.maxAttempts {
		q.log.Error("mail delivery failed permanently",
			zap.String("to", env.Message.To),
			zap.String("subject", env.Message.Subject),
			zap.Int("attempts", env.Attempts),
			zap.Error(err),
		)
		return
	}

	q.log.Warn("mail delivery failed, will retry",
		zap.String("to", env.Message.To),
		zap.Int("attempt", env.Attempts),
		zap.Duration("backoff", q.retryDelay),
		zap.Error(err),
	)

	select {
	case <-ctx.Done():
	case <-time.After(q.retryDelay):
	}

	// Requeue even on shutdown so the message survives the restart.
	raw, marshalErr := json.Marshal(env)
	if marshalErr != nil {
		q.log.Error("dropping unmarshalable mail envelope", zap.Error(marshalErr))
		return
	}
	if pushErr := q.client.LPush(context.WithoutCancel(ctx), q.key, raw).Err(); pushErr != nil {
		q.log.Error("mail requeue failed, message lost",
			zap.String("to", env.Message.To),
			zap.Error(pushErr),
		)
	}
}
