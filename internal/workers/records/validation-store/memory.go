// internal/workers/records/validation-store/memory.go
package validationstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/metrics"
	"idea-validator/internal/models"
)

// MemoryStore is used when no Postgres host is configured. Contents are lost on restart.
// Reports are cloned on the way in and out so stored records stay write-once.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
	seq     int64
	logger  logger.Logger
	now     func() time.Time
}

type memoryRecord struct {
	record models.ValidationRecord
	seq    int64
}

func NewMemoryStore(log logger.Logger) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]memoryRecord),
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType, "backend": "memory"}),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(ctx context.Context, userID string, form models.IdeaForm, report models.ValidationReport, overallScore int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := uuid.New().String()
	s.records[id] = memoryRecord{
		record: models.ValidationRecord{
			ID:           id,
			UserID:       userID,
			Form:         form,
			Report:       report.Clone(),
			OverallScore: overallScore,
			CreatedAt:    s.now(),
		},
		seq: s.seq,
	}
	metrics.StoreResult("create", nil)
	return id, nil
}

func (s *MemoryStore) List(ctx context.Context, userID string) ([]models.ValidationRecord, error) {
	s.mu.RLock()
	owned := make([]memoryRecord, 0)
	for _, r := range s.records {
		if r.record.UserID == userID {
			owned = append(owned, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool {
		a, b := owned[i], owned[j]
		if !a.record.CreatedAt.Equal(b.record.CreatedAt) {
			return a.record.CreatedAt.After(b.record.CreatedAt)
		}
		return a.seq > b.seq
	})

	records := make([]models.ValidationRecord, 0, len(owned))
	for _, r := range owned {
		records = append(records, r.record.Clone())
	}
	metrics.StoreResult("list", nil)
	return records, nil
}

func (s *MemoryStore) Get(ctx context.Context, userID, recordID string) (record *models.ValidationRecord, err error) {
	defer func() { metrics.StoreResult("get", err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[recordID]
	if !ok {
		return nil, notFound(recordID)
	}
	if r.record.UserID != userID {
		return nil, forbidden(recordID)
	}
	copied := r.record.Clone()
	return &copied, nil
}

func (s *MemoryStore) Count(ctx context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.records {
		if r.record.UserID == userID {
			count++
		}
	}
	metrics.StoreResult("count", nil)
	return count, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID, recordID string) (err error) {
	defer func() { metrics.StoreResult("delete", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[recordID]
	if !ok {
		return notFound(recordID)
	}
	if r.record.UserID != userID {
		s.logger.Warn("delete rejected for non-owner", map[string]interface{}{
			"userId":   userID,
			"recordId": recordID,
		})
		return forbidden(recordID)
	}
	delete(s.records, recordID)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
