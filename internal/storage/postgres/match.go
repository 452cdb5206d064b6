package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/thirty/internal/game/dice"
	"github.com/cory-johannsen/thirty/internal/game/match"
	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

const (
	tableMatches = "matches"
	tableDice    = "match_dice"
	tableScores  = "match_scores"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// MatchRepository stores match snapshots across the matches, match_dice and
// match_scores tables. Categories are stored by target (Low = 3).
type MatchRepository struct {
	db     *pgxpool.Pool
	tx     trm.Manager
	getter *trmpgx.CtxGetter
}

// NewMatchRepository creates a MatchRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; tx must be built on
// the same pool.
func NewMatchRepository(db *pgxpool.Pool, tx trm.Manager) *MatchRepository {
	return &MatchRepository{db: db, tx: tx, getter: trmpgx.DefaultCtxGetter}
}

func (r *MatchRepository) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.db)
}

// Save writes snap under id, replacing any previous snapshot, in one transaction.
//
// Precondition: id must be a UUID.
// Postcondition: Load(id) returns snap, or an error and the stored snapshot is unchanged.
func (r *MatchRepository) Save(ctx context.Context, id string, snap match.Snapshot) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("saving match %q: %w", id, err)
	}
	stmts, err := saveStatements(id, snap)
	if err != nil {
		return fmt.Errorf("building save for match %s: %w", id, err)
	}
	return r.tx.Do(ctx, func(ctx context.Context) error {
		conn := r.conn(ctx)
		for _, st := range stmts {
			if _, err := conn.Exec(ctx, st.sql, st.args...); err != nil {
				return fmt.Errorf("saving match %s: %w", id, err)
			}
		}
		return nil
	})
}

// Load reads the snapshot stored under id.
//
// Postcondition: Returns the snapshot, or an error wrapping match.ErrSnapshotNotFound.
func (r *MatchRepository) Load(ctx context.Context, id string) (match.Snapshot, error) {
	if _, err := uuid.Parse(id); err != nil {
		return match.Snapshot{}, fmt.Errorf("%w: %q", match.ErrSnapshotNotFound, id)
	}

	var snap match.Snapshot
	err := r.tx.Do(ctx, func(ctx context.Context) error {
		conn := r.conn(ctx)

		var available []int32
		q, args, err := psql.
			Select("rounds", "throws_per_round", "round", "throws_left", "complete", "available").
			From(tableMatches).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		err = conn.QueryRow(ctx, q, args...).Scan(
			&snap.Rules.Rounds, &snap.Rules.ThrowsPerRound,
			&snap.Round, &snap.ThrowsLeft, &snap.Complete, &available,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", match.ErrSnapshotNotFound, id)
			}
			return fmt.Errorf("querying match %s: %w", id, err)
		}
		if snap.Board.Available, err = categoriesFromTargets(available); err != nil {
			return err
		}

		if snap.Dice, err = r.loadDice(ctx, conn, id); err != nil {
			return err
		}
		snap.Board.Scores, err = r.loadScores(ctx, conn, id)
		return err
	})
	if err != nil {
		return match.Snapshot{}, err
	}
	return snap, nil
}

func (r *MatchRepository) loadDice(ctx context.Context, conn trmpgx.Tr, id string) ([]dice.State, error) {
	q, args, err := psql.
		Select("value", "consumed", "enabled", "selected").
		From(tableDice).
		Where(sq.Eq{"match_id": id}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dice for match %s: %w", id, err)
	}
	defer rows.Close()

	out := make([]dice.State, 0, scoring.DiceCount)
	for rows.Next() {
		var d dice.State
		if err := rows.Scan(&d.Value, &d.Consumed, &d.Enabled, &d.Selected); err != nil {
			return nil, fmt.Errorf("scanning die row: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *MatchRepository) loadScores(ctx context.Context, conn trmpgx.Tr, id string) ([]scoring.Score, error) {
	q, args, err := psql.
		Select("category", "points").
		From(tableScores).
		Where(sq.Eq{"match_id": id}).
		OrderBy("category").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scores for match %s: %w", id, err)
	}
	defer rows.Close()

	out := make([]scoring.Score, 0)
	for rows.Next() {
		var target, points int
		if err := rows.Scan(&target, &points); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		c, err := scoring.FromTarget(target)
		if err != nil {
			return nil, fmt.Errorf("stored score: %w", err)
		}
		out = append(out, scoring.Score{Category: c, Points: points})
	}
	return out, rows.Err()
}

// Delete removes the snapshot stored under id.
//
// Postcondition: Returns nil, or an error wrapping match.ErrSnapshotNotFound if nothing was stored.
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", match.ErrSnapshotNotFound, id)
	}
	q, args, err := psql.Delete(tableMatches).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("deleting match %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", match.ErrSnapshotNotFound, id)
	}
	return nil
}

type statement struct {
	sql  string
	args []interface{}
}

// saveStatements builds the upsert of the match row followed by a full
// replacement of its dice and score rows.
func saveStatements(id string, snap match.Snapshot) ([]statement, error) {
	var out []statement
	add := func(b sq.Sqlizer) error {
		q, args, err := b.ToSql()
		if err != nil {
			return err
		}
		out = append(out, statement{sql: q, args: args})
		return nil
	}

	available := make([]int32, len(snap.Board.Available))
	for i, c := range snap.Board.Available {
		available[i] = int32(c.Target())
	}
	upsert := psql.Insert(tableMatches).
		Columns("id", "rounds", "throws_per_round", "round", "throws_left", "complete", "available").
		Values(id, snap.Rules.Rounds, snap.Rules.ThrowsPerRound, snap.Round, snap.ThrowsLeft, snap.Complete, available).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			rounds = EXCLUDED.rounds,
			throws_per_round = EXCLUDED.throws_per_round,
			round = EXCLUDED.round,
			throws_left = EXCLUDED.throws_left,
			complete = EXCLUDED.complete,
			available = EXCLUDED.available,
			updated_at = NOW()`)
	if err := add(upsert); err != nil {
		return nil, err
	}

	if err := add(psql.Delete(tableDice).Where(sq.Eq{"match_id": id})); err != nil {
		return nil, err
	}
	if len(snap.Dice) > 0 {
		ins := psql.Insert(tableDice).Columns("match_id", "position", "value", "consumed", "enabled", "selected")
		for i, d := range snap.Dice {
			ins = ins.Values(id, i, d.Value, d.Consumed, d.Enabled, d.Selected)
		}
		if err := add(ins); err != nil {
			return nil, err
		}
	}

	if err := add(psql.Delete(tableScores).Where(sq.Eq{"match_id": id})); err != nil {
		return nil, err
	}
	if len(snap.Board.Scores) > 0 {
		ins := psql.Insert(tableScores).Columns("match_id", "category", "points")
		for _, s := range snap.Board.Scores {
			ins = ins.Values(id, s.Category.Target(), s.Points)
		}
		if err := add(ins); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func categoriesFromTargets(targets []int32) ([]scoring.Category, error) {
	out := make([]scoring.Category, 0, len(targets))
	for _, t := range targets {
		c, err := scoring.FromTarget(int(t))
		if err != nil {
			return nil, fmt.Errorf("stored category: %w", err)
		}
		out = append(out, c)
	}
	return out, nil
}
