package database

import (
	"errors"

	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"github.com/teamflow/teamflow-api/internal/apperror"
)

// ErrPoolExhausted is the cause carried by statements rejected by the
// PoolGate. The error added to the statement is an apperror of kind
// Unavailable wrapping it.
var ErrPoolExhausted = errors.New("database connection pool exhausted")

// BusyMessage is the client-facing message for rejected statements.
const BusyMessage = "service is busy, please retry"

const (
	poolGateName        = "poolgate"
	poolGateAcquiredKey = "poolgate:acquired"
)

// PoolGate is a gorm plugin that bounds the number of statements in flight.
// Up to maxOpen run on connections and up to queueLimit more wait inside
// database/sql; anything beyond fails immediately with ErrPoolExhausted.
// A queueLimit of zero disables the gate.
type PoolGate struct {
	sem      *semaphore.Weighted
	OnReject func()
}

// NewPoolGate creates a gate admitting maxOpen+queueLimit statements.
func NewPoolGate(maxOpen, queueLimit int) *PoolGate {
	gate := &PoolGate{}
	if queueLimit > 0 {
		gate.sem = semaphore.NewWeighted(int64(maxOpen + queueLimit))
	}
	return gate
}

// Name implements gorm.Plugin.
func (g *PoolGate) Name() string {
	return poolGateName
}

// Initialize implements gorm.Plugin.
func (g *PoolGate) Initialize(db *gorm.DB) error {
	if g.sem == nil {
		return nil
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("poolgate:acquire_create", g.acquire); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("poolgate:release_create", g.release); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("poolgate:acquire_query", g.acquire); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("poolgate:release_query", g.release); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("poolgate:acquire_update", g.acquire); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("poolgate:release_update", g.release); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("poolgate:acquire_delete", g.acquire); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("poolgate:release_delete", g.release); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("poolgate:acquire_row", g.acquire); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("poolgate:release_row", g.release); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("poolgate:acquire_raw", g.acquire); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("poolgate:release_raw", g.release)
}

func (g *PoolGate) acquire(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	if !g.sem.TryAcquire(1) {
		if g.OnReject != nil {
			g.OnReject()
		}
		_ = db.AddError(apperror.Unavailable(ErrPoolExhausted, BusyMessage))
		return
	}
	db.InstanceSet(poolGateAcquiredKey, true)
}

func (g *PoolGate) release(db *gorm.DB) {
	value, ok := db.InstanceGet(poolGateAcquiredKey)
	if !ok {
		return
	}
	if held, _ := value.(bool); held {
		db.InstanceSet(poolGateAcquiredKey, false)
		g.sem.Release(1)
	}
}
