package postgres

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/domain/registry"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/RegistryRisk-Intelligence/pkg/errors"
)

const uniqueViolation = "23505"

const (
	insertResultSQL = `
		INSERT INTO classification_results (
			id, request_id, input_hash, object_key, source,
			confidence, has_hard_stop, base_kind, summary, payload, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	insertHardStopSQL = `
		INSERT INTO classification_hard_stops (result_id, rule_id, name, event_seq)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT DO NOTHING`

	selectResultSQL = `SELECT payload FROM classification_results WHERE id = $1`
)

// DB is the subset of *pgxpool.Pool the result store needs.
type DB interface {
	TxBeginner
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// QueryRecorder receives one call per database operation.
type QueryRecorder interface {
	RecordDBQuery(operation string, duration time.Duration, err error)
}

// ResultStore persists classification records.  The full record is kept as
// JSONB; the scalar columns and the hard-stop rows exist for querying.
type ResultStore struct {
	db       DB
	logger   logging.Logger
	recorder QueryRecorder
}

// NewResultStore constructs a ResultStore.  recorder may be nil.
func NewResultStore(db DB, log logging.Logger, recorder QueryRecorder) *ResultStore {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &ResultStore{db: db, logger: log.Named("result-store"), recorder: recorder}
}

// Save inserts rec and its hard stops in one transaction.  A duplicate id
// is reported as a conflict.
func (s *ResultStore) Save(ctx context.Context, rec registry.ClassificationRecord) (err error) {
	start := time.Now()
	defer func() { s.observe("insert_result", start, err) }()

	rec.Cached = false
	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode classification record")
	}

	err = WithTransaction(ctx, s.db, func(tx pgx.Tx, txCtx context.Context) error {
		if _, err := tx.Exec(txCtx, insertResultSQL,
			rec.ID, rec.RequestID, rec.InputHash, rec.ObjectKey, string(rec.Result.Document.Source),
			rec.Result.Confidence.String(), rec.Result.HasHardStop, rec.BaseKind(), rec.Result.Summary,
			payload, rec.CreatedAt,
		); err != nil {
			return mapWriteError(err, "failed to insert classification result")
		}
		for _, hs := range rec.Result.HardStops {
			if _, err := tx.Exec(txCtx, insertHardStopSQL, rec.ID, hs.RuleID, hs.Name, hs.Event.Seq); err != nil {
				return mapWriteError(err, "failed to insert hard stop")
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ResultStore.Save failed", logging.Err(err), logging.String(logging.FieldResultID, rec.ID))
		return err
	}
	s.logger.Debug("ResultStore.Save",
		logging.String(logging.FieldResultID, rec.ID),
		logging.Int("hard_stops", len(rec.Result.HardStops)),
	)
	return nil
}

// FindByID loads a record.  A missing id returns REG_001.
func (s *ResultStore) FindByID(ctx context.Context, id string) (rec registry.ClassificationRecord, err error) {
	start := time.Now()
	defer func() { s.observe("select_result", start, err) }()

	var payload []byte
	if err = s.db.QueryRow(ctx, selectResultSQL, id).Scan(&payload); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return rec, errors.New(errors.ErrCodeResultNotFound, "classification not found").WithDetail(id)
		}
		s.logger.Error("ResultStore.FindByID failed", logging.Err(err), logging.String(logging.FieldResultID, id))
		return rec, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load classification result")
	}
	if err = json.Unmarshal(payload, &rec); err != nil {
		return registry.ClassificationRecord{}, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode classification record")
	}
	return rec, nil
}

// Ping reports whether the database is reachable.
func (s *ResultStore) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database ping failed")
	}
	return nil
}

func (s *ResultStore) observe(op string, start time.Time, err error) {
	if s.recorder != nil {
		s.recorder.RecordDBQuery(op, time.Since(start), err)
	}
}

func mapWriteError(err error, msg string) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Conflict("classification result already exists").WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, msg)
}

//Personal.AI order the ending
