package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type PruneLogRepo struct{ db *sql.DB }

func NewPruneLogRepo(db *sql.DB) *PruneLogRepo { return &PruneLogRepo{db: db} }

func (r *PruneLogRepo) Insert(ctx context.Context, e PruneLogEntry) error {
	if e.ErroredIDs == nil {
		e.ErroredIDs = []string{}
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO prune_log
  (guild_id, channel_id, role_filter, requested_by, attempted, removed, errored_ids)
VALUES
  ($1,$2,$3,$4,$5,$6,$7)
`, e.GuildID, e.ChannelID, e.RoleFilter, e.RequestedBy, e.Attempted, e.Removed, pq.Array(e.ErroredIDs))
	return err
}

// RecentForGuild: últimas invocaciones, para /policy show.
func (r *PruneLogRepo) RecentForGuild(ctx context.Context, guildID string, limit int) ([]PruneLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT guild_id, channel_id, role_filter, requested_by, attempted, removed, errored_ids, created_at
  FROM prune_log
 WHERE guild_id = $1
 ORDER BY created_at DESC
 LIMIT $2
`, guildID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PruneLogEntry
	for rows.Next() {
		var e PruneLogEntry
		if err := rows.Scan(
			&e.GuildID, &e.ChannelID, &e.RoleFilter, &e.RequestedBy,
			&e.Attempted, &e.Removed, pq.Array(&e.ErroredIDs), &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
