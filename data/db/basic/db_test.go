package basic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	core "ogm/data/db"
)

func openMemory(t *testing.T) *DB {
	t.Helper()
	d, err := New(context.Background(), core.DBConfig{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// TestDB_ExecQuery 测试基本读写
func TestDB_ExecQuery(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	assert.Equal(t, "sqlite", d.GetDialectName())
	require.NoError(t, d.Ping(ctx))

	_, err := d.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY, v INTEGER)`)
	require.NoError(t, err)
	_, err = d.Exec(ctx, `INSERT INTO kv (k, v) VALUES (?, ?), (?, ?)`, "a", 1, "b", 2)
	require.NoError(t, err)

	var v int
	require.NoError(t, d.QueryRow(ctx, `SELECT v FROM kv WHERE k = ?`, "b").Scan(&v))
	assert.Equal(t, 2, v)

	rows, err := d.Query(ctx, `SELECT k FROM kv ORDER BY k`)
	require.NoError(t, err)
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a", "b"}, keys)

	_, err = d.Query(ctx, `SELECT nope FROM missing`)
	assert.Error(t, err)
}

// TestTx_CommitRollback 测试事务提交与回滚
func TestTx_CommitRollback(t *testing.T) {
	ctx := context.Background()
	d := openMemory(t)
	_, err := d.Exec(ctx, `CREATE TABLE kv (k TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	tx, err := d.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO kv (k) VALUES (?)`, "kept")
	require.NoError(t, err)
	_, err = tx.BeginTx(ctx, nil)
	assert.Error(t, err)
	require.NoError(t, tx.Commit())

	tx, err = d.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, `INSERT INTO kv (k) VALUES (?)`, "dropped")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	var n int
	require.NoError(t, d.QueryRow(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n))
	assert.Equal(t, 1, n)
}
