package credstore

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cinebook/internal/filex"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a Store backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisAddr  string
	RedisKey   string
}

// Open builds the Store named by opts.Backend. The returned close function
// releases the backend's resources and is never nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), noop, nil
	case BackendSQLite:
		if err := filex.EnsureParentDir(opts.SQLitePath); err != nil {
			return nil, noop, err
		}
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, opts.RedisAddr, opts.RedisKey)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
