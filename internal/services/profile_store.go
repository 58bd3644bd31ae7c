package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/logging"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/govgr-digital/profile-api/internal/observability"
	"github.com/govgr-digital/profile-api/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ProfileStore persists submitted profile records. SaveProfile returns
// models.ErrPersistenceRejected when the backend evaluated the record and
// declined it; any other error is a transport-class failure the caller may
// treat as transient.
type ProfileStore interface {
	SaveProfile(ctx context.Context, record models.ProfileRecord) error
	GetProfile(ctx context.Context, afm string) (*models.ProfileRecord, error)
}

// MongoProfileStore stores profile records in MongoDB keyed by tax
// identifier, with a Redis write-through cache in front of reads.
type MongoProfileStore struct {
	collection *mongo.Collection
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *logging.SafeLogger
}

// NewMongoProfileStore creates a profile store backed by the shared MongoDB
// and Redis handles.
func NewMongoProfileStore(cfg *config.Config, logger *logging.SafeLogger) *MongoProfileStore {
	return &MongoProfileStore{
		collection: config.MongoDB.Collection(cfg.ProfileCollection),
		cache:      config.Redis,
		cacheTTL:   cfg.RedisTTL,
		logger:     logger,
	}
}

func profileCacheKey(afm string) string {
	return "profile:" + afm
}

// SaveProfile upserts the record by tax identifier and refreshes the cache.
// One citizen, one record: a resubmission for the same afm replaces the
// previous document instead of accumulating duplicates.
func (s *MongoProfileStore) SaveProfile(ctx context.Context, record models.ProfileRecord) error {
	ctx, span := utils.TraceDatabaseUpdate(ctx, s.collection.Name(), "afm", true)
	defer span.End()

	filter := bson.M{"afm": record.AFM}
	update := bson.M{"$set": record}

	_, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		utils.RecordErrorInSpan(span, err, map[string]interface{}{
			"db.operation": "upsert_profile",
		})

		var writeErr mongo.WriteException
		if errors.As(err, &writeErr) || mongo.IsDuplicateKeyError(err) {
			s.logger.Warn("profile write rejected by backend",
				zap.String("afm", observability.MaskAFM(record.AFM)),
				zap.Error(err))
			return fmt.Errorf("%w: %v", models.ErrPersistenceRejected, err)
		}

		s.logger.Error("profile write failed",
			zap.String("afm", observability.MaskAFM(record.AFM)),
			zap.Error(err))
		return fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info("profile record saved",
		zap.String("afm", observability.MaskAFM(record.AFM)),
		zap.String("operation", "profile_saved"))

	s.writeCache(ctx, record)

	return nil
}

// writeCache refreshes the cached copy after a successful write. Cache
// failures are logged and swallowed; the record is already durable.
func (s *MongoProfileStore) writeCache(ctx context.Context, record models.ProfileRecord) {
	if s.cache == nil {
		return
	}

	ctx, span := utils.TraceCacheSet(ctx, profileCacheKey(record.AFM), s.cacheTTL)
	defer span.End()

	data, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("failed to marshal profile for cache", zap.Error(err))
		return
	}

	if err := s.cache.Set(ctx, profileCacheKey(record.AFM), data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("failed to cache profile",
			zap.String("afm", observability.MaskAFM(record.AFM)),
			zap.Error(err))
	}
}

// GetProfile reads a record by tax identifier, consulting the cache first.
func (s *MongoProfileStore) GetProfile(ctx context.Context, afm string) (*models.ProfileRecord, error) {
	if s.cache != nil {
		ctx, span := utils.TraceCacheGet(ctx, profileCacheKey(afm))
		data, err := s.cache.Get(ctx, profileCacheKey(afm)).Bytes()
		span.End()

		if err == nil {
			var record models.ProfileRecord
			if err := json.Unmarshal(data, &record); err == nil {
				observability.CacheHits.WithLabelValues("hit").Inc()
				return &record, nil
			}
			// Unreadable cache entries fall through to MongoDB.
			s.logger.Warn("discarding unreadable cache entry",
				zap.String("afm", observability.MaskAFM(afm)))
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("cache read failed",
				zap.String("afm", observability.MaskAFM(afm)),
				zap.Error(err))
		}
		observability.CacheHits.WithLabelValues("miss").Inc()
	}

	ctx, span := utils.TraceEndpointStep(ctx, "database_find", map[string]interface{}{
		"db.collection": s.collection.Name(),
		"db.operation":  "find_one",
	})
	defer span.End()

	var record models.ProfileRecord
	err := s.collection.FindOne(ctx, bson.M{"afm": afm}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProfileNotFound
		}
		utils.RecordErrorInSpan(span, err, map[string]interface{}{
			"db.operation": "find_profile",
		})
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	s.writeCache(ctx, record)

	return &record, nil
}
