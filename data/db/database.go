// Package db 提供最小的数据库抽象接口，隔离 database/sql 细节并便于测试替换
package db

import (
	"context"
	"database/sql"
)

// IDatabase 通用数据库接口
type IDatabase interface {
	Query(ctx context.Context, query string, args ...any) (IRows, error)
	QueryRow(ctx context.Context, query string, args ...any) IRow
	Exec(ctx context.Context, query string, args ...any) (sql.Result, error)

	BeginTx(ctx context.Context, opts *sql.TxOptions) (ITransaction, error)

	Ping(ctx context.Context) error
	Close() error
}

// ITransaction 事务接口，事务内同样可执行查询
type ITransaction interface {
	IDatabase

	Commit() error
	Rollback() error
}

// IRows 查询结果集接口
type IRows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// IRow 单行结果接口
type IRow interface {
	Scan(dest ...any) error
	Err() error
}

// DBConfig 数据库配置
type DBConfig struct {
	// Driver 驱动名，默认 sqlite（调用方需空导入 modernc.org/sqlite）
	Driver string
	// DSN 数据源，sqlite 下为文件路径或 ":memory:"
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // 秒
}

// IDialectNameProvider 可选接口：提供底层数据库方言名称（sqlite、postgres 等）
type IDialectNameProvider interface {
	GetDialectName() string
}
