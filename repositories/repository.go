package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zabuzara/project-milestone-dashboard-backend/logging"
	"github.com/zabuzara/project-milestone-dashboard-backend/metrics"
)

const (
	ProjectCollection   = "Project"
	MilestoneCollection = "Milestone"
	MemberCollection    = "Member"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrUnavailable  = errors.New("store unavailable")
)

// NewBreaker builds the circuit breaker shared by every repository. Missing documents and
// unique index violations are answers from a healthy database and do not trip it.
func NewBreaker(name string, maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > maxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrDuplicateKey) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
}

// collection is the typed facade every repository is built on.
type collection[T any] struct {
	coll    *mongo.Collection
	breaker *gobreaker.CircuitBreaker
}

func newCollection[T any](coll *mongo.Collection, breaker *gobreaker.CircuitBreaker) collection[T] {
	return collection[T]{coll: coll, breaker: breaker}
}

func guard[R any](breaker *gobreaker.CircuitBreaker, name, operation string, fn func() (R, error)) (R, error) {
	start := time.Now()
	out, err := breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	metrics.RecordStoreOperation(operation, name, start, err)

	var zero R
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return zero, err
	}
	result, _ := out.(R)
	return result, nil
}

func (c collection[T]) find(ctx context.Context, filter interface{}) ([]T, error) {
	return guard(c.breaker, c.coll.Name(), "find", func() ([]T, error) {
		cursor, err := c.coll.Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("find in %s: %w", c.coll.Name(), err)
		}
		defer cursor.Close(ctx)

		items := []T{}
		if err := cursor.All(ctx, &items); err != nil {
			return nil, fmt.Errorf("decode %s documents: %w", c.coll.Name(), err)
		}
		if items == nil {
			items = []T{}
		}
		return items, nil
	})
}

func (c collection[T]) findByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return guard(c.breaker, c.coll.Name(), "find_one", func() (*T, error) {
		var item T
		err := c.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("find %s %s: %w", c.coll.Name(), id.Hex(), err)
		}
		return &item, nil
	})
}

func (c collection[T]) insert(ctx context.Context, doc *T) error {
	_, err := guard(c.breaker, c.coll.Name(), "insert", func() (struct{}, error) {
		if _, err := c.coll.InsertOne(ctx, doc); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return struct{}{}, ErrDuplicateKey
			}
			return struct{}{}, fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
		}
		return struct{}{}, nil
	})
	return err
}

func (c collection[T]) replace(ctx context.Context, id primitive.ObjectID, doc *T) error {
	_, err := guard(c.breaker, c.coll.Name(), "replace", func() (struct{}, error) {
		result, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return struct{}{}, ErrDuplicateKey
			}
			return struct{}{}, fmt.Errorf("replace %s %s: %w", c.coll.Name(), id.Hex(), err)
		}
		if result.MatchedCount == 0 {
			return struct{}{}, ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

func (c collection[T]) delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := guard(c.breaker, c.coll.Name(), "delete", func() (struct{}, error) {
		result, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			return struct{}{}, fmt.Errorf("delete %s %s: %w", c.coll.Name(), id.Hex(), err)
		}
		if result.DeletedCount == 0 {
			return struct{}{}, ErrNotFound
		}
		return struct{}{}, nil
	})
	return err
}

// containsFold matches documents whose field contains value, ignoring case.
func containsFold(value string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(value), Options: "i"}
}
