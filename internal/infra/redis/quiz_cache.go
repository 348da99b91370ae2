package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/domain"
)

// QuizCache decorates a quiz repository with a Redis cache. Each quiz is
// stored as one JSON document so the question sequence, answer key included,
// round-trips losslessly. Reads fall back to the inner repository on a miss;
// writes go straight through and prime the cache.
type QuizCache struct {
	client *redis.Client
	inner  app.QuizRepository
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizCache(client *redis.Client, inner app.QuizRepository, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) Create(ctx context.Context, quiz *domain.Quiz) error {
	if err := c.inner.Create(ctx, quiz); err != nil {
		return err
	}
	c.prime(ctx, *quiz)
	return nil
}

func (c *QuizCache) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	if quiz, ok := c.lookup(ctx, quizID); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := c.lookup(ctx, quizID); ok {
			return quiz, nil
		}
		quiz, err := c.inner.GetQuiz(ctx, quizID)
		if err != nil {
			return domain.Quiz{}, err
		}
		c.prime(ctx, quiz)
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// ListQuizzes is not cached; the catalog listing is cheap relative to the
// per-submission quiz loads this cache exists for.
func (c *QuizCache) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	return c.inner.ListQuizzes(ctx)
}

func (c *QuizCache) lookup(ctx context.Context, quizID string) (domain.Quiz, bool) {
	raw, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		return domain.Quiz{}, false
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, false
	}
	return quiz, true
}

func (c *QuizCache) prime(ctx context.Context, quiz domain.Quiz) {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	// best-effort; a failed prime only costs a future cache miss
	_ = c.client.Set(ctx, c.key(quiz.ID), raw, c.ttlWithJitter()).Err()
}

func (c *QuizCache) key(quizID string) string {
	return "quiz:" + quizID
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
