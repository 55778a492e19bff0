package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/towerops/toweradmin/internal/core/domain"
)

const collectionInstances = "instances"

type InstanceRepository struct {
	col *mongo.Collection
}

func NewInstanceRepository(db *mongo.Database) *InstanceRepository {
	return &InstanceRepository{col: db.Collection(collectionInstances)}
}

func (r *InstanceRepository) List(ctx context.Context) ([]domain.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	instances := []domain.Instance{}
	if err := cur.All(ctx, &instances); err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *InstanceRepository) FindByID(ctx context.Context, id string) (*domain.Instance, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *InstanceRepository) FindByName(ctx context.Context, name string) (*domain.Instance, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *InstanceRepository) Create(ctx context.Context, inst *domain.Instance) (*domain.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *inst
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrInstanceExists
		}
		return nil, err
	}
	return &created, nil
}

func (r *InstanceRepository) Update(ctx context.Context, inst *domain.Instance) (*domain.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": inst.ID}, inst)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrInstanceNotFound
	}
	return inst, nil
}

func (r *InstanceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrInstanceNotFound
	}
	return nil
}

func (r *InstanceRepository) findOne(ctx context.Context, filter bson.M) (*domain.Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var inst domain.Instance
	err := r.col.FindOne(ctx, filter).Decode(&inst)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInstanceNotFound
		}
		return nil, err
	}
	return &inst, nil
}
