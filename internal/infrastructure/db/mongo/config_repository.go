package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/towerops/toweradmin/internal/core/domain"
)

const collectionConfig = "tower_config"

// configDocID pins the single tower config record.
const configDocID = "tower"

type ConfigRepository struct {
	col *mongo.Collection
}

func NewConfigRepository(db *mongo.Database) *ConfigRepository {
	return &ConfigRepository{col: db.Collection(collectionConfig)}
}

func (r *ConfigRepository) Get(ctx context.Context) (*domain.TowerConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cfg domain.TowerConfig
	err := r.col.FindOne(ctx, bson.M{"_id": configDocID}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConfigNotSet
		}
		return nil, err
	}
	return &cfg, nil
}

// Save upserts the single config record.
func (r *ConfigRepository) Save(ctx context.Context, cfg *domain.TowerConfig) (*domain.TowerConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	saved := *cfg
	saved.ID = configDocID
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": configDocID}, saved, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
