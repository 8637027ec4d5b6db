// Package postgres provides PostgreSQL implementations of repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"mindmapr/internal/journal/domain/entities"
	"mindmapr/internal/journal/ports/repositories"
	"mindmapr/pkg/logger"
)

// ErrUnscopedQuery возвращается при попытке выборки без владельца.
var ErrUnscopedQuery = errors.New("entry query without owner")

// Коды ошибок Postgres, которые трактуются как доменные.
const (
	pgCheckViolation   = "23514"
	pgNotNullViolation = "23502"
	pgInvalidTextRepr  = "22P02"
)

const (
	entryColumns         = `id::text, user_id, content, mood_label, mood_confidence, created_at, updated_at`
	searchEscapeChar     = `\`
	defaultEntryCapacity = 16
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DBTX - общий интерфейс pgxpool.Pool, pgx.Tx и pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRepository реализует интерфейс repositories.EntryRepository.
type EntryRepository struct {
	db DBTX
}

// NewEntryRepository создает новый репозиторий записей.
func NewEntryRepository(db DBTX) repositories.EntryRepository {
	return &EntryRepository{db: db}
}

// Insert сохраняет новую запись. Идентификатор и временные метки назначает база.
func (r *EntryRepository) Insert(ctx context.Context, entry *entities.Entry) (*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.Insert"))

	if entry == nil {
		return nil, entities.ErrInvalidEntry
	}
	if err := entry.Validate(); err != nil {
		log.Debug(ctx, "entry rejected", zap.Error(err))
		return nil, err
	}

	log.Debug(ctx, "creating new entry", zap.String("userID", entry.UserID))

	saved, err := scanEntry(r.db.QueryRow(ctx,
		`INSERT INTO entries (user_id, content, mood_label, mood_confidence)
         VALUES ($1, $2, $3, $4)
         RETURNING `+entryColumns,
		entry.UserID, entry.Content, string(entry.MoodLabel), entry.MoodConfidence,
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, errors.Join(entities.ErrInvalidEntry, err)
		}
		log.Error(ctx, "failed to create entry", zap.Error(err))
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	log.Debug(ctx, "entry created", zap.String("entryID", saved.ID))
	return saved, nil
}

// FindByID получает запись по идентификатору.
func (r *EntryRepository) FindByID(ctx context.Context, entryID string) (*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.FindByID"))
	log.Debug(ctx, "getting entry", zap.String("entryID", entryID))

	entry, err := scanEntry(r.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1`,
		entryID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			log.Debug(ctx, "entry not found", zap.String("entryID", entryID))
			return nil, entities.ErrEntryNotFound
		}
		log.Error(ctx, "failed to get entry", zap.Error(err))
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	return entry, nil
}

// FindMany возвращает записи по фильтру в заданном порядке.
// Равные created_at упорядочиваются по id в том же направлении.
func (r *EntryRepository) FindMany(ctx context.Context, filter repositories.EntryFilter, sort repositories.SortOrder, skip, limit int) ([]*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.FindMany"))

	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	direction := "DESC"
	if sort == repositories.SortOldestFirst {
		direction = "ASC"
	}

	query := `SELECT ` + entryColumns + ` FROM entries WHERE ` + where +
		` ORDER BY created_at ` + direction + `, id ` + direction
	if limit > 0 {
		args = append(args, limit, max(skip, 0))
		query += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	log.Debug(ctx, "listing entries", zap.Int("skip", skip), zap.Int("limit", limit), zap.String("order", direction))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		log.Error(ctx, "failed to list entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*entities.Entry, 0, min(max(limit, 0), defaultEntryCapacity))
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			log.Error(ctx, "failed to scan entry", zap.Error(err))
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// Count возвращает число записей, подходящих под фильтр.
func (r *EntryRepository) Count(ctx context.Context, filter repositories.EntryFilter) (int, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.Count"))

	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM entries WHERE `+where, args...).Scan(&total); err != nil {
		log.Error(ctx, "failed to count entries", zap.Error(err))
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return total, nil
}

// Update заменяет текст записи. updated_at никогда не уменьшается.
func (r *EntryRepository) Update(ctx context.Context, entryID, content string) (*entities.Entry, error) {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.Update"))
	log.Debug(ctx, "updating entry", zap.String("entryID", entryID))

	if strings.TrimSpace(content) == "" {
		return nil, errors.Join(entities.ErrInvalidEntry, errors.New("content is required"))
	}

	entry, err := scanEntry(r.db.QueryRow(ctx,
		`UPDATE entries SET content = $1, updated_at = GREATEST(now(), updated_at)
         WHERE id = $2
         RETURNING `+entryColumns,
		content, entryID,
	))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), isInvalidID(err):
			log.Debug(ctx, "entry not found", zap.String("entryID", entryID))
			return nil, entities.ErrEntryNotFound
		case isConstraintViolation(err):
			return nil, errors.Join(entities.ErrInvalidEntry, err)
		}
		log.Error(ctx, "failed to update entry", zap.Error(err))
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	return entry, nil
}

// Delete удаляет запись.
func (r *EntryRepository) Delete(ctx context.Context, entryID string) error {
	log := logger.Log(ctx).With(zap.String("method", "EntryRepository.Delete"))
	log.Debug(ctx, "deleting entry", zap.String("entryID", entryID))

	result, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1`, entryID)
	if err != nil {
		if isInvalidID(err) {
			return entities.ErrEntryNotFound
		}
		log.Error(ctx, "failed to delete entry", zap.Error(err))
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "entry not found")
		return entities.ErrEntryNotFound
	}

	return nil
}

// buildWhere собирает предикат выборки. Владелец всегда первый аргумент.
func buildWhere(filter repositories.EntryFilter) (string, []any, error) {
	if strings.TrimSpace(filter.UserID) == "" {
		return "", nil, ErrUnscopedQuery
	}

	conds := []string{"user_id = $1"}
	args := []any{filter.UserID}

	if filter.Mood != "" {
		args = append(args, string(filter.Mood))
		conds = append(conds, "mood_label = $"+strconv.Itoa(len(args)))
	}

	if filter.Search != "" {
		args = append(args, likeEscaper.Replace(filter.Search))
		conds = append(conds,
			`content ILIKE '%' || $`+strconv.Itoa(len(args))+` || '%' ESCAPE '`+searchEscapeChar+`'`)
	}

	return strings.Join(conds, " AND "), args, nil
}

func scanEntry(row pgx.Row) (*entities.Entry, error) {
	var (
		entry entities.Entry
		mood  string
	)
	if err := row.Scan(&entry.ID, &entry.UserID, &entry.Content, &mood,
		&entry.MoodConfidence, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	entry.MoodLabel = entities.Mood(mood)
	return &entry, nil
}

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation)
}

func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextRepr
}
