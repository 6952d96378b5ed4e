// internal/workers/records/validation-store/postgres.go
package validationstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"idea-validator/internal/common/logger"
	"idea-validator/internal/common/metrics"
	"idea-validator/internal/models"
)

// PostgresStore keeps records in the validations table. Ownership is enforced in SQL.
type PostgresStore struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

func NewPostgresStore(config *Config, db *sql.DB, log logger.Logger) *PostgresStore {
	if config == nil {
		config = LoadConfig()
	}
	return &PostgresStore{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType, "backend": "postgres"}),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.New().String() },
	}
}

func (s *PostgresStore) Create(ctx context.Context, userID string, form models.IdeaForm, report models.ValidationReport, overallScore int) (id string, err error) {
	defer func() { metrics.StoreResult("create", err) }()

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	formData, err := json.Marshal(form)
	if err != nil {
		return "", unavailable("create", err)
	}
	reportData, err := json.Marshal(report)
	if err != nil {
		return "", unavailable("create", err)
	}

	id = s.newID()
	if _, err := s.db.ExecContext(ctx, insertValidationQuery,
		id, userID, form.Title, form.Description, formData, reportData, overallScore, s.now(),
	); err != nil {
		s.logger.Error("failed to insert validation", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return "", unavailable("create", err)
	}

	s.logger.Info("validation saved", map[string]interface{}{
		"userId":       userID,
		"recordId":     id,
		"overallScore": overallScore,
	})
	return id, nil
}

func (s *PostgresStore) List(ctx context.Context, userID string) (records []models.ValidationRecord, err error) {
	defer func() { metrics.StoreResult("list", err) }()

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, listValidationsQuery, userID)
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	records = make([]models.ValidationRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, unavailable("list", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	return records, nil
}

func (s *PostgresStore) Get(ctx context.Context, userID, recordID string) (record *models.ValidationRecord, err error) {
	defer func() { metrics.StoreResult("get", err) }()

	if _, err := uuid.Parse(recordID); err != nil {
		return nil, notFound(recordID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	record, err = scanRecord(s.db.QueryRowContext(ctx, getValidationQuery, recordID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(recordID)
	}
	if err != nil {
		return nil, unavailable("get", err)
	}
	if record.UserID != userID {
		return nil, forbidden(recordID)
	}
	return record, nil
}

func (s *PostgresStore) Count(ctx context.Context, userID string) (count int, err error) {
	defer func() { metrics.StoreResult("count", err) }()

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if err := s.db.QueryRowContext(ctx, countValidationsQuery, userID).Scan(&count); err != nil {
		return 0, unavailable("count", err)
	}
	return count, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userID, recordID string) (err error) {
	defer func() { metrics.StoreResult("delete", err) }()

	if _, err := uuid.Parse(recordID); err != nil {
		return notFound(recordID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, deleteValidationQuery, recordID, userID)
	if err != nil {
		return unavailable("delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return unavailable("delete", err)
	}
	if affected > 0 {
		s.logger.Info("validation deleted", map[string]interface{}{
			"userId":   userID,
			"recordId": recordID,
		})
		return nil
	}

	var owner string
	err = s.db.QueryRowContext(ctx, validationOwnerQuery, recordID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(recordID)
	}
	if err != nil {
		return unavailable("delete", err)
	}

	s.logger.Warn("delete rejected for non-owner", map[string]interface{}{
		"userId":   userID,
		"recordId": recordID,
	})
	return forbidden(recordID)
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ValidationRecord, error) {
	var (
		record     models.ValidationRecord
		formData   []byte
		reportData []byte
	)
	if err := row.Scan(&record.ID, &record.UserID, &formData, &reportData, &record.OverallScore, &record.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(formData, &record.Form); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportData, &record.Report); err != nil {
		return nil, err
	}
	return &record, nil
}
