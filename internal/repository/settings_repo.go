package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fradegh/ai-sales-sub002/internal/model"
)

// AutosendReadinessThreshold is the minimum tenant readiness score
// required before autosend may be switched on.
const AutosendReadinessThreshold = 0.8

// ErrAutosendNotReady is returned when a tenant tries to enable autosend
// before reaching the readiness threshold. Distinct from validation
// errors so the handler can answer 409 instead of 422.
var ErrAutosendNotReady = errors.New("tenant readiness score below autosend threshold")

type SettingsRepo interface {
	Get(ctx context.Context, tenantID string) (*model.DecisionSettings, error)
	Update(ctx context.Context, settings *model.DecisionSettings) error
	GetReadiness(ctx context.Context, tenantID string) (float64, error)
}

type settingsRepo struct {
	settings  *mongo.Collection
	readiness *mongo.Collection
}

func NewSettingsRepo(client *mongo.Client, dbName string) SettingsRepo {
	db := client.Database(dbName)
	return &settingsRepo{
		settings:  db.Collection("decision_settings"),
		readiness: db.Collection("tenant_readiness"),
	}
}

// Get returns the tenant settings, or the conservative defaults when the
// tenant has never saved any.
func (r *settingsRepo) Get(ctx context.Context, tenantID string) (*model.DecisionSettings, error) {
	var settings model.DecisionSettings
	err := r.settings.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return model.DefaultDecisionSettings(tenantID), nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update is the only write path for decision settings. It enforces the
// threshold invariant and the autosend readiness gate; the engine never
// sees settings that failed either.
func (r *settingsRepo) Update(ctx context.Context, settings *model.DecisionSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.AutosendAllowed {
		score, err := r.GetReadiness(ctx, settings.TenantID)
		if err != nil {
			return err
		}
		if score < AutosendReadinessThreshold {
			return ErrAutosendNotReady
		}
	}
	settings.UpdatedAt = time.Now()
	_, err := r.settings.ReplaceOne(ctx,
		bson.M{"_id": settings.TenantID},
		settings,
		options.Replace().SetUpsert(true),
	)
	return err
}

// GetReadiness reads the tenant readiness score computed by the offline
// quality workflow. Missing document means 0: never ready.
func (r *settingsRepo) GetReadiness(ctx context.Context, tenantID string) (float64, error) {
	var doc struct {
		Score float64 `bson:"score"`
	}
	err := r.readiness.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Score, nil
}
