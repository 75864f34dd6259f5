package catalog

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ogm/association"
	"ogm/data/db"
	"ogm/data/db/dialect"
	apperrors "ogm/errors"
)

var (
	// ErrSnapshotNotFound 快照不存在
	ErrSnapshotNotFound = stdErrors.New("catalog: snapshot not found")
)

// SnapshotInfo 快照摘要
type SnapshotInfo struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Entries   int
}

// SQLStore 将关联描述快照保存到 SQL 数据库（SQLite）
//
// 每次保存生成新的快照 ID，同一快照内保持条目顺序；快照只追加不修改。
// created_at 以 Unix 纳秒整数保存，避免聚合查询丢失列类型后无法还原时间。
type SQLStore struct {
	db        db.IDatabase
	dialect   dialect.Dialect
	tableName string
	table     string
	now       func() time.Time
}

// NewSQLStore 创建快照存储，tableName 为空时使用 association_snapshots
func NewSQLStore(database db.IDatabase, tableName string) *SQLStore {
	if tableName == "" {
		tableName = "association_snapshots"
	}
	d := dialect.FromDatabase(database)
	return &SQLStore{
		db:        database,
		dialect:   d,
		tableName: tableName,
		table:     d.QuoteIdentifier(tableName),
		now:       time.Now,
	}
}

// CreateTable 创建快照表（幂等）
func (s *SQLStore) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			snapshot_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			owner TEXT NOT NULL,
			name TEXT NOT NULL,
			kind TEXT NOT NULL,
			direction TEXT NOT NULL,
			rel_type TEXT NOT NULL,
			targets TEXT NOT NULL,
			is_unique INTEGER NOT NULL DEFAULT 0,
			pattern TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (snapshot_id, position)
		);
		CREATE INDEX IF NOT EXISTS %s ON %s(created_at);
	`, s.table, s.dialect.QuoteIdentifier("idx_"+s.tableName+"_created_at"), s.table)

	if _, err := s.db.Exec(ctx, query); err != nil {
		return apperrors.WrapDatabaseError(ctx, err, "创建快照表")
	}
	return nil
}

// SaveSnapshot 在一个事务中保存全部条目，返回快照 ID
func (s *SQLStore) SaveSnapshot(ctx context.Context, entries []Entry) (uuid.UUID, error) {
	id := uuid.New()
	createdAt := s.now().UTC().UnixNano()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, apperrors.WrapDatabaseError(ctx, err, "开启事务")
	}
	defer tx.Rollback()

	insert := s.dialect.Rebind(fmt.Sprintf(`INSERT INTO %s
		(snapshot_id, position, owner, name, kind, direction, rel_type, targets, is_unique, pattern, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table))

	for i, e := range entries {
		targets, err := json.Marshal(e.Targets)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encode targets of %s.%s: %w", e.Owner, e.Name, err)
		}
		if _, err := tx.Exec(ctx, insert,
			id.String(), i, e.Owner, e.Name, string(e.Kind), string(e.Direction),
			e.Type, string(targets), e.Unique, e.Pattern, createdAt,
		); err != nil {
			if s.dialect.IsUniqueViolation(err) {
				return uuid.Nil, apperrors.WrapError(err, apperrors.ErrCodeConflict,
					fmt.Sprintf("snapshot %s already exists", id))
			}
			return uuid.Nil, apperrors.WrapDatabaseError(ctx, err, "保存快照条目")
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, apperrors.WrapDatabaseError(ctx, err, "提交快照")
	}
	return id, nil
}

// LoadSnapshot 按 ID 读取快照条目
func (s *SQLStore) LoadSnapshot(ctx context.Context, id uuid.UUID) ([]Entry, error) {
	rows, err := s.db.Query(ctx, s.dialect.Rebind(fmt.Sprintf(`
		SELECT owner, name, kind, direction, rel_type, targets, is_unique, pattern
		FROM %s WHERE snapshot_id = ? ORDER BY position`, s.table)), id.String())
	if err != nil {
		return nil, apperrors.WrapDatabaseError(ctx, err, "读取快照")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			kind, direction, targs string
		)
		if err := rows.Scan(&e.Owner, &e.Name, &kind, &direction, &e.Type, &targs, &e.Unique, &e.Pattern); err != nil {
			return nil, apperrors.WrapDatabaseError(ctx, err, "读取快照条目")
		}
		e.Kind = association.Kind(kind)
		e.Direction = association.Direction(direction)
		if err := json.Unmarshal([]byte(targs), &e.Targets); err != nil {
			return nil, fmt.Errorf("decode targets of %s.%s: %w", e.Owner, e.Name, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapDatabaseError(ctx, err, "读取快照")
	}

	if len(entries) == 0 {
		return nil, apperrors.WrapError(ErrSnapshotNotFound, apperrors.ErrCodeNotFound,
			fmt.Sprintf("snapshot %s not found", id))
	}
	return entries, nil
}

// ListSnapshots 按创建时间倒序列出快照
func (s *SQLStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT snapshot_id, MIN(created_at), COUNT(*)
		FROM %s GROUP BY snapshot_id ORDER BY MIN(created_at) DESC, snapshot_id`, s.table))
	if err != nil {
		return nil, apperrors.WrapDatabaseError(ctx, err, "列出快照")
	}
	defer rows.Close()

	var infos []SnapshotInfo
	for rows.Next() {
		var (
			rawID     string
			createdAt int64
			info      SnapshotInfo
		)
		if err := rows.Scan(&rawID, &createdAt, &info.Entries); err != nil {
			return nil, apperrors.WrapDatabaseError(ctx, err, "读取快照摘要")
		}
		if info.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("invalid snapshot id %q: %w", rawID, err)
		}
		info.CreatedAt = time.Unix(0, createdAt).UTC()
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.WrapDatabaseError(ctx, err, "列出快照")
	}
	return infos, nil
}
