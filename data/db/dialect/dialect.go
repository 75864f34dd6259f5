// Package dialect 抽象快照存储用到的少量方言差异：标识符引用、占位符与唯一键冲突识别。
package dialect

import (
	"strconv"
	"strings"

	core "ogm/data/db"
)

// Name 标准化的方言名称
type Name string

const (
	NameSQLite   Name = "sqlite"
	NamePostgres Name = "postgres"
	NameMySQL    Name = "mysql"
	NameUnknown  Name = ""
)

// Dialect 数据库方言
type Dialect struct {
	name Name
}

// New 根据驱动名构造方言（大小写不敏感）
func New(name string) Dialect {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return Dialect{name: NameSQLite}
	case "postgres", "postgresql", "pgx":
		return Dialect{name: NamePostgres}
	case "mysql":
		return Dialect{name: NameMySQL}
	default:
		return Dialect{name: NameUnknown}
	}
}

// FromDatabase 从数据库实例推断方言，未实现 IDialectNameProvider 时为 Unknown
func FromDatabase(db core.IDatabase) Dialect {
	if p, ok := db.(core.IDialectNameProvider); ok {
		return New(p.GetDialectName())
	}
	return Dialect{name: NameUnknown}
}

// Name 方言名
func (d Dialect) Name() Name { return d.name }

// QuoteIdentifier 引用表名或列名，schema.table 逐段引用；Unknown 方言原样返回
func (d Dialect) QuoteIdentifier(name string) string {
	if name == "" || d.name == NameUnknown {
		return name
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if d.name == NameMySQL {
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		} else {
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
		}
	}
	return strings.Join(parts, ".")
}

// Rebind 将 ? 占位符转换为方言形式，仅 Postgres 改写为 $1、$2...
// 不解析字符串字面量，查询中不应出现字面量 ?。
func (d Dialect) Rebind(query string) string {
	if d.name != NamePostgres {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteByte(query[i])
	}
	return sb.String()
}

// IsUniqueViolation 按错误消息识别唯一键或主键冲突
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch d.name {
	case NameSQLite:
		return strings.Contains(msg, "unique constraint failed")
	case NameMySQL:
		return strings.Contains(msg, "duplicate entry")
	default:
		return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
	}
}
