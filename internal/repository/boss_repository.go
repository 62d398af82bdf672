package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/boss_timer_bot/internal/model"
	"github.com/Freeeeeet/boss_timer_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const bossColumns = `id, name, level, location, attack_type, respawn_hours, last_kill_at, next_spawn_at, is_scheduled, notified_spawn_at, created_at, updated_at`

// BossRepository хранит боссов и их расписание в PostgreSQL
type BossRepository struct {
	*base.Repository
	logger *zap.Logger
}

// NewBossRepository создаёт новый репозиторий боссов
func NewBossRepository(pool *pgxpool.Pool, logger *zap.Logger) *BossRepository {
	return &BossRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт нового босса
func (r *BossRepository) Create(ctx context.Context, boss *model.Boss) error {
	query := `
		INSERT INTO bosses (name, level, location, attack_type, respawn_hours, last_kill_at, next_spawn_at, is_scheduled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	boss.IsScheduled = boss.NextSpawnAt != nil

	err := r.QueryRow(
		ctx,
		query,
		boss.Name,
		boss.Level,
		boss.Location,
		boss.AttackType,
		boss.RespawnHours,
		boss.LastKillAt,
		boss.NextSpawnAt,
		boss.IsScheduled,
	).Scan(&boss.ID, &boss.CreatedAt, &boss.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create boss: %w", err)
	}

	return nil
}

// ListAll возвращает всех боссов: сначала запланированные по времени спавна, затем остальные по имени
func (r *BossRepository) ListAll(ctx context.Context) ([]*model.Boss, error) {
	query := `
		SELECT ` + bossColumns + `
		FROM bosses
		ORDER BY (next_spawn_at IS NULL), next_spawn_at ASC, name ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bosses: %w", err)
	}
	defer rows.Close()

	return scanBosses(rows)
}

// GetByID получает босса по ID
func (r *BossRepository) GetByID(ctx context.Context, id int64) (*model.Boss, error) {
	query := `SELECT ` + bossColumns + ` FROM bosses WHERE id = $1`

	boss, err := scanBoss(r.QueryRow(ctx, query, id))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get boss by id: %w", err)
	}

	return boss, nil
}

// FindByName ищет первого босса, имя которого содержит подстроку (без учёта регистра)
func (r *BossRepository) FindByName(ctx context.Context, search string) (*model.Boss, error) {
	query := `
		SELECT ` + bossColumns + `
		FROM bosses
		WHERE LOWER(name) LIKE LOWER($1)
		ORDER BY (LOWER(name) = LOWER($2)) DESC, name ASC
		LIMIT 1
	`

	boss, err := scanBoss(r.QueryRow(ctx, query, "%"+escapeLike(search)+"%", search))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find boss by name: %w", err)
	}

	return boss, nil
}

// FindDueBetween возвращает боссов, чей спавн попадает в [low, high] включительно
func (r *BossRepository) FindDueBetween(ctx context.Context, low, high time.Time) ([]*model.Boss, error) {
	query := `
		SELECT ` + bossColumns + `
		FROM bosses
		WHERE next_spawn_at BETWEEN $1 AND $2
		ORDER BY next_spawn_at ASC
	`

	rows, err := r.Query(ctx, query, low, high)
	if err != nil {
		return nil, fmt.Errorf("find bosses due between: %w", err)
	}
	defer rows.Close()

	return scanBosses(rows)
}

// UpdateSchedule применяет частичное обновление расписания и возвращает обновлённого босса.
// Возвращает nil, nil если босс не найден.
func (r *BossRepository) UpdateSchedule(ctx context.Context, id int64, upd model.ScheduleUpdate) (*model.Boss, error) {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.SetLastKill {
		add("last_kill_at", upd.LastKillAt)
	}
	if upd.SetNextSpawn {
		add("next_spawn_at", upd.NextSpawnAt)
		add("is_scheduled", upd.NextSpawnAt != nil)
	}
	if upd.RespawnHours != nil {
		add("respawn_hours", *upd.RespawnHours)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE bosses
		SET %s
		WHERE id = $%d
		RETURNING `+bossColumns,
		strings.Join(sets, ", "), len(args))

	boss, err := scanBoss(r.QueryRow(ctx, query, args...))
	if base.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update boss schedule: %w", err)
	}

	r.logger.Debug("Boss schedule updated",
		zap.Int64("boss_id", id),
		zap.Bool("set_last_kill", upd.SetLastKill),
		zap.Bool("set_next_spawn", upd.SetNextSpawn),
	)

	return boss, nil
}

// MarkNotified запоминает время спавна, о котором отправлено уведомление
func (r *BossRepository) MarkNotified(ctx context.Context, id int64, spawnAt time.Time) error {
	query := `UPDATE bosses SET notified_spawn_at = $2 WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id, spawnAt)
	if err != nil {
		return fmt.Errorf("mark boss notified: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark boss notified: boss %d not found", id)
	}

	return nil
}

// Delete удаляет босса
func (r *BossRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM bosses WHERE id = $1`

	if _, err := r.ExecAffected(ctx, query, id); err != nil {
		return fmt.Errorf("delete boss: %w", err)
	}

	return nil
}

func scanBoss(row pgx.Row) (*model.Boss, error) {
	boss := &model.Boss{}
	var attackType string

	err := row.Scan(
		&boss.ID,
		&boss.Name,
		&boss.Level,
		&boss.Location,
		&attackType,
		&boss.RespawnHours,
		&boss.LastKillAt,
		&boss.NextSpawnAt,
		&boss.IsScheduled,
		&boss.NotifiedSpawnAt,
		&boss.CreatedAt,
		&boss.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	boss.AttackType = model.AttackType(attackType)
	normalizeTimes(boss)

	return boss, nil
}

func scanBosses(rows pgx.Rows) ([]*model.Boss, error) {
	var bosses []*model.Boss
	for rows.Next() {
		boss, err := scanBoss(rows)
		if err != nil {
			return nil, fmt.Errorf("scan boss: %w", err)
		}
		bosses = append(bosses, boss)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bosses: %w", err)
	}

	return bosses, nil
}

// normalizeTimes приводит все метки времени к UTC
func normalizeTimes(boss *model.Boss) {
	for _, t := range []**time.Time{&boss.LastKillAt, &boss.NextSpawnAt, &boss.NotifiedSpawnAt} {
		if *t != nil {
			utc := (*t).UTC()
			*t = &utc
		}
	}
	boss.CreatedAt = boss.CreatedAt.UTC()
	boss.UpdatedAt = boss.UpdatedAt.UTC()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
