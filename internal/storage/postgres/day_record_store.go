package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// DayRecordStore implements storage.DayRecordStore using PostgreSQL.
// Rows persist the scalar day summary only; per-item reward
// distributions belong to the analytics store and read back as nil.
type DayRecordStore struct {
	pool *Pool
}

// NewDayRecordStore creates a new DayRecordStore.
func NewDayRecordStore(pool *Pool) *DayRecordStore {
	return &DayRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DayRecordStore = (*DayRecordStore)(nil)

const dayRecordColumns = `
	run_id, day,
	total_supply, circulating_supply, current_price,
	total_rewards, total_burns, net_flow,
	daily_revenue, active_users, content_count,
	inflation_rate, velocity,
	commission_burn, nft_burn, promotion_burn, governance_burn, quality_burn
`

const insertDayRecordQuery = `
	INSERT INTO day_records (` + dayRecordColumns + `
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
`

// Insert adds a single day record. Returns ErrDuplicateKey if (run_id, day) exists.
func (s *DayRecordStore) Insert(ctx context.Context, runID string, rec *domain.DayRecord) error {
	if runID == "" || rec == nil {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertDayRecordQuery, dayRecordArgs(runID, rec)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert day record: %w", err)
	}
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *DayRecordStore) InsertBulk(ctx context.Context, runID string, recs []*domain.DayRecord) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		if rec == nil {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertDayRecordQuery, dayRecordArgs(runID, rec)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert day record in batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByRun retrieves all records for a run, ordered by day ASC.
func (s *DayRecordStore) GetByRun(ctx context.Context, runID string) ([]*domain.DayRecord, error) {
	query := `
		SELECT ` + dayRecordColumns + `
		FROM day_records
		WHERE run_id = $1
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("get day records by run: %w", err)
	}
	defer rows.Close()

	return scanDayRecords(rows)
}

// GetByDayRange retrieves records for a run within [start, end] (inclusive).
func (s *DayRecordStore) GetByDayRange(ctx context.Context, runID string, start, end int) ([]*domain.DayRecord, error) {
	query := `
		SELECT ` + dayRecordColumns + `
		FROM day_records
		WHERE run_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, runID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get day records by range: %w", err)
	}
	defer rows.Close()

	return scanDayRecords(rows)
}

func dayRecordArgs(runID string, rec *domain.DayRecord) []any {
	return []any{
		runID, rec.Day,
		rec.TotalSupply, rec.CirculatingSupply, rec.CurrentPrice,
		rec.TotalRewards, rec.TotalBurns, rec.NetFlow,
		rec.DailyRevenue, rec.ActiveUsers, rec.ContentCount,
		rec.InflationRate, rec.Velocity,
		rec.BurnBreakdown.CommissionBurn, rec.BurnBreakdown.NFTBurn,
		rec.BurnBreakdown.PromotionBurn, rec.BurnBreakdown.GovernanceBurn,
		rec.BurnBreakdown.QualityBurn,
	}
}

// scanDayRecords scans multiple rows into a slice of DayRecord.
func scanDayRecords(rows pgx.Rows) ([]*domain.DayRecord, error) {
	var records []*domain.DayRecord

	for rows.Next() {
		var rec domain.DayRecord
		var runID string

		err := rows.Scan(
			&runID, &rec.Day,
			&rec.TotalSupply, &rec.CirculatingSupply, &rec.CurrentPrice,
			&rec.TotalRewards, &rec.TotalBurns, &rec.NetFlow,
			&rec.DailyRevenue, &rec.ActiveUsers, &rec.ContentCount,
			&rec.InflationRate, &rec.Velocity,
			&rec.BurnBreakdown.CommissionBurn, &rec.BurnBreakdown.NFTBurn,
			&rec.BurnBreakdown.PromotionBurn, &rec.BurnBreakdown.GovernanceBurn,
			&rec.BurnBreakdown.QualityBurn,
		)
		if err != nil {
			return nil, fmt.Errorf("scan day record row: %w", err)
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day record rows: %w", err)
	}

	return records, nil
}
