package gen

import (
	"context"
	"log"
)

// Failover tries the remote generator and substitutes the deterministic
// fallback on any failure. Its Generate never returns an error, which
// is the contract the simulation engine relies on.
type Failover struct {
	remote   Generator
	fallback *Fallback
	log      *log.Logger
}

// NewFailover builds the guaranteed-fallback wrapper. remote may be nil
// (offline mode), in which case every call goes straight to fallback.
func NewFailover(remote Generator, fallback *Fallback, logger *log.Logger) *Failover {
	return &Failover{remote: remote, fallback: fallback, log: logger}
}

func (f *Failover) Generate(ctx context.Context, snap Snapshot, days int) (ChangeSet, error) {
	if f.remote != nil {
		cs, err := f.remote.Generate(ctx, snap, days)
		if err == nil {
			return cs, nil
		}
		if f.log != nil {
			f.log.Printf("remote generator failed, using fallback: %v", err)
		}
	}
	return f.fallback.Generate(ctx, snap, days)
}
