package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/servicehub/marketplace-api/internal/core/domain"
)

const collectionExecutors = "executors"

// ExecutorRepository implements ports.ExecutorRepository on MongoDB.
type ExecutorRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewExecutorRepository(db *mongo.Database) *ExecutorRepository {
	return &ExecutorRepository{
		col: db.Collection(collectionExecutors),
		seq: newSequence(db, collectionExecutors),
	}
}

func (r *ExecutorRepository) Create(ctx context.Context, e *domain.Executor) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return err
	}
	e.ID = id

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		e.ID = 0
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert executor: %w", err)
	}
	return nil
}

func (r *ExecutorRepository) FindByMobileNumber(ctx context.Context, mobile string) (*domain.Executor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Executor
	if err := r.col.FindOne(ctx, bson.M{"mobile_number": mobile}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrExecutorNotFound
		}
		return nil, fmt.Errorf("find executor: %w", err)
	}
	return &e, nil
}

// ListByRole matches role with plain equality, so the comparison is case-sensitive.
func (r *ExecutorRepository) ListByRole(ctx context.Context, role string) ([]*domain.Executor, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"role": role}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list executors: %w", err)
	}
	var out []*domain.Executor
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode executors: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the unique and lookup indexes on the executors collection.
func (r *ExecutorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "mobile_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		uniqueWhenPresent("email"),
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
