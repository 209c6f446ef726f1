package store

import (
	"context"       // Context for cancellation
	"encoding/json" // JSON encoding/decoding
	"time"          // Timestamps

	"hospital_insights/internal/domain" // Importing domain models

	"github.com/google/uuid"       // Entry IDs
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging
)

const auditEntriesKey = "audit:entries"

// AuditStore is an append-only activity log kept in a Redis sorted set
// scored by Unix milliseconds.
type AuditStore struct {
	h   Handle
	now func() time.Time // Overridden in tests
}

// NewAuditStore binds the log to a document store handle.
func NewAuditStore(h Handle) *AuditStore {
	return &AuditStore{h: h, now: time.Now}
}

// Append writes an entry. Failures are logged and never returned.
func (s *AuditStore) Append(ctx context.Context, actor, action, details string) {
	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		Username:  actor,
		Action:    action,
		Details:   details,
		Timestamp: s.now().UTC(),
	}
	b, err := json.Marshal(entry)
	if err == nil {
		err = s.h.ZAdd(ctx, auditEntriesKey, redis.Z{
			Score:  float64(entry.Timestamp.UnixMilli()),
			Member: string(b),
		}).Err()
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"username": actor,
			"action":   action,
			"error":    err.Error(),
		}).Warn("Failed to write activity log")
	}
}

// Recent returns up to limit entries, newest first. When the store is
// unreachable it returns an empty slice and an ErrDataUnavailable error.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	entries := []domain.AuditEntry{}
	if limit <= 0 {
		return entries, nil
	}
	vals, err := s.h.ZRevRange(ctx, auditEntriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return entries, unavailable("recent activity", err)
	}
	for _, v := range vals {
		var e domain.AuditEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			logrus.WithError(err).Warn("Skipping malformed activity log entry")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
