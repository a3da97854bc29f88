package clickhouse

import (
	"context"
	"fmt"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

// RewardDistributionStore implements storage.RewardDistributionStore
// using ClickHouse. MergeTree does not enforce uniqueness; item_index
// continues from the existing page so repeated inserts append.
type RewardDistributionStore struct {
	conn *Conn
}

// NewRewardDistributionStore creates a new RewardDistributionStore.
func NewRewardDistributionStore(conn *Conn) *RewardDistributionStore {
	return &RewardDistributionStore{conn: conn}
}

// Compile-time interface check.
var _ storage.RewardDistributionStore = (*RewardDistributionStore)(nil)

// InsertBulk adds one day's distributions.
func (s *RewardDistributionStore) InsertBulk(ctx context.Context, runID string, day int, dists []*domain.RewardDistribution) error {
	if runID == "" || day < 0 {
		return storage.ErrInvalidInput
	}
	for _, d := range dists {
		if d == nil {
			return storage.ErrInvalidInput
		}
	}
	if len(dists) == 0 {
		return nil
	}

	offset, err := s.pageSize(ctx, runID, day)
	if err != nil {
		return fmt.Errorf("count existing page: %w", err)
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO reward_distributions (
			run_id, day, item_index,
			total_reward, creator_reward,
			share_pool, report_pool, like_pool, dislike_pool, comment_pool,
			share_per_action, report_per_action, like_per_action,
			dislike_per_action, comment_per_action,
			platform_commission, nft_royalty_pool
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, d := range dists {
		err = batch.Append(
			runID, uint32(day), uint32(offset+uint64(i)),
			d.TotalReward, d.CreatorReward,
			d.SharePool, d.ReportPool, d.LikePool, d.DislikePool, d.CommentPool,
			d.SharePerAction, d.ReportPerAction, d.LikePerAction,
			d.DislikePerAction, d.CommentPerAction,
			d.PlatformCommission, d.NFTRoyaltyPool,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRunDay retrieves all distributions for one run day, in insertion order.
func (s *RewardDistributionStore) GetByRunDay(ctx context.Context, runID string, day int) ([]*domain.RewardDistribution, error) {
	query := `
		SELECT
			total_reward, creator_reward,
			share_pool, report_pool, like_pool, dislike_pool, comment_pool,
			share_per_action, report_per_action, like_per_action,
			dislike_per_action, comment_per_action,
			platform_commission, nft_royalty_pool
		FROM reward_distributions
		WHERE run_id = ? AND day = ?
		ORDER BY item_index ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, uint32(day))
	if err != nil {
		return nil, fmt.Errorf("query by run day: %w", err)
	}
	defer rows.Close()

	var dists []*domain.RewardDistribution
	for rows.Next() {
		var d domain.RewardDistribution
		err := rows.Scan(
			&d.TotalReward, &d.CreatorReward,
			&d.SharePool, &d.ReportPool, &d.LikePool, &d.DislikePool, &d.CommentPool,
			&d.SharePerAction, &d.ReportPerAction, &d.LikePerAction,
			&d.DislikePerAction, &d.CommentPerAction,
			&d.PlatformCommission, &d.NFTRoyaltyPool,
		)
		if err != nil {
			return nil, fmt.Errorf("scan distribution row: %w", err)
		}
		dists = append(dists, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distribution rows: %w", err)
	}

	return dists, nil
}

// pageSize returns the number of rows already stored for (run, day).
func (s *RewardDistributionStore) pageSize(ctx context.Context, runID string, day int) (uint64, error) {
	query := `
		SELECT count(*) FROM reward_distributions
		WHERE run_id = ? AND day = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, runID, uint32(day)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
