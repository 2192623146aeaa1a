package database

import (
	"fmt"
	"net/url"
	"strings"
)

// Dialect identifies the store backend selected by a connection string.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DSN is a normalized connection string.
type DSN struct {
	Dialect Dialect
	// Conn is the value handed to the driver: a file path for sqlite, a URL for postgres.
	Conn string
}

var localHosts = map[string]struct{}{
	"":          {},
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

// ParseDSN normalizes a connection string.
//
// postgres:// is rewritten to postgresql:// and sslmode=require is appended when the
// host is remote and no sslmode was given. For sqlite:// one leading slash of the path is
// dropped, so sqlite:///data/app.db is relative and sqlite:////tmp/app.db is absolute.
func ParseDSN(raw string) (*DSN, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty connection string")
	}

	for _, prefix := range []string{"sqlite://", "sqlite3://"} {
		if rest, ok := strings.CutPrefix(raw, prefix); ok {
			rest = strings.TrimPrefix(rest, "/")
			if rest == "" {
				return nil, fmt.Errorf("missing sqlite path in %q", raw)
			}
			return &DSN{Dialect: DialectSQLite, Conn: rest}, nil
		}
	}
	if strings.HasPrefix(raw, "file:") {
		return &DSN{Dialect: DialectSQLite, Conn: raw}, nil
	}

	if rest, ok := strings.CutPrefix(raw, "postgres://"); ok {
		raw = "postgresql://" + rest
	}
	if !strings.HasPrefix(raw, "postgresql://") {
		scheme, _, _ := strings.Cut(raw, "://")
		return nil, fmt.Errorf("unsupported connection string scheme %q", scheme)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	q := u.Query()
	if _, local := localHosts[u.Hostname()]; !local && !q.Has("sslmode") {
		q.Set("sslmode", "require")
		u.RawQuery = q.Encode()
	}

	return &DSN{Dialect: DialectPostgres, Conn: u.String()}, nil
}

// IsFile reports whether the DSN points to an on-disk sqlite database.
func (d *DSN) IsFile() bool {
	if d.Dialect != DialectSQLite {
		return false
	}
	return !strings.Contains(d.Conn, ":memory:") && !strings.Contains(d.Conn, "mode=memory")
}

// Path returns the file system path of a sqlite DSN without URI prefix and query.
func (d *DSN) Path() string {
	p := strings.TrimPrefix(d.Conn, "file:")
	p, _, _ = strings.Cut(p, "?")
	return p
}
