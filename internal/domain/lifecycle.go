package domain

import (
	"database/sql"
	"time"
)

type LifecycleState string

const (
	LifecycleActive  LifecycleState = "ACTIVE"
	LifecycleDeleted LifecycleState = "DELETED"
)

// Lifecycle is the soft-delete state of a record. It is either Active or
// Deleted at a point in time; build it with Active or DeletedAt so the two
// fields never disagree.
type Lifecycle struct {
	state     LifecycleState
	deletedOn time.Time
}

func Active() Lifecycle {
	return Lifecycle{state: LifecycleActive}
}

func DeletedAt(t time.Time) Lifecycle {
	return Lifecycle{state: LifecycleDeleted, deletedOn: t}
}

// LifecycleFromNullTime maps a nullable deleted_on column onto a Lifecycle.
func LifecycleFromNullTime(t sql.NullTime) Lifecycle {
	if t.Valid {
		return DeletedAt(t.Time)
	}
	return Active()
}

// State reports ACTIVE for the zero value.
func (l Lifecycle) State() LifecycleState {
	if l.state == "" {
		return LifecycleActive
	}
	return l.state
}

func (l Lifecycle) IsActive() bool {
	return l.State() == LifecycleActive
}

// DeletedOn returns the deletion time and false when the record is active.
func (l Lifecycle) DeletedOn() (time.Time, bool) {
	if l.IsActive() {
		return time.Time{}, false
	}
	return l.deletedOn, true
}

// NullTime is the inverse of LifecycleFromNullTime.
func (l Lifecycle) NullTime() sql.NullTime {
	t, deleted := l.DeletedOn()
	return sql.NullTime{Time: t, Valid: deleted}
}
