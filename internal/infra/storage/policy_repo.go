package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("not found")

type PolicyRepo struct{ db *sql.DB }

func NewPolicyRepo(db *sql.DB) *PolicyRepo { return &PolicyRepo{db: db} }

func (r *PolicyRepo) Get(ctx context.Context, guildID string) (GuildPolicy, error) {
	var p GuildPolicy
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, autoprune_enabled, exempt_role_name, created_at, updated_at
  FROM guild_policies
 WHERE guild_id = $1
`, guildID).Scan(
		&p.GuildID, &p.AutopruneEnabled, &p.ExemptRoleName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// crea default
		_, err := r.db.ExecContext(ctx, `
INSERT INTO guild_policies (guild_id) VALUES ($1) ON CONFLICT DO NOTHING
`, guildID)
		if err != nil {
			return GuildPolicy{}, err
		}
		return r.Get(ctx, guildID)
	}
	return p, err
}

func (r *PolicyRepo) Update(ctx context.Context, guildID string, u GuildPolicyUpdate) (GuildPolicy, error) {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	i := 1

	if u.AutopruneEnabled != nil {
		sets = append(sets, fmt.Sprintf("autoprune_enabled = $%d", i))
		args = append(args, *u.AutopruneEnabled)
		i++
	}
	if u.ExemptRoleName != nil {
		sets = append(sets, fmt.Sprintf("exempt_role_name = $%d", i))
		args = append(args, *u.ExemptRoleName)
		i++
	}
	if len(sets) == 0 {
		return r.Get(ctx, guildID)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, guildID)

	// aseguramos fila default antes del update parcial
	if _, err := r.Get(ctx, guildID); err != nil {
		return GuildPolicy{}, err
	}
	q := fmt.Sprintf(`UPDATE guild_policies SET %s WHERE guild_id = $%d`, strings.Join(sets, ", "), i)
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return GuildPolicy{}, err
	}
	return r.Get(ctx, guildID)
}
