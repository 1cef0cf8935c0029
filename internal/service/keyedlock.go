// Package service implements the business operations of the gym:
// the transactional booking coordinator, the registration service,
// the fee engine and the payroll aggregator.  Services depend on
// narrow store interfaces implemented by the repository layer, which
// keeps the algorithms independent of SQL and testable with in-memory
// fakes.
package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/gym-class-reservation/internal/model"
)

// commitmentLocks is the process-wide serialization point for
// capacity-changing writes.  Every service that consumes seats goes
// through this one registry, so a booking and an enrollment contending
// for the same class exclude each other no matter which service they
// entered through.
var commitmentLocks = newKeyedMutex()

// Lock keys.  Enrollments, extensions and activations take the class
// key exclusively because they claim seats across many dates; bookings
// take it shared plus the session key exclusively, so bookings on
// different dates of one class still run concurrently.  Package
// purchases serialize per member.
func classLockKey(classID uint64) string { return fmt.Sprintf("class:%d", classID) }

func sessionLockKey(classID uint64, date time.Time) string {
	return fmt.Sprintf("session:%d:%s", classID, model.Date(date).Format(model.DateLayout))
}

func memberLockKey(memberID uint64) string { return fmt.Sprintf("member:%d", memberID) }

// keyedMutex provides one read/write mutex per string key.  Scoping
// the lock to the contended resource keeps unrelated classes and
// members fully concurrent; there is no global lock.
//
// Entries are reference-counted and removed when the last holder
// releases, so the map does not grow with the key space.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLockEntry
}

type keyedLockEntry struct {
	mu   sync.RWMutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLockEntry)}
}

func (k *keyedMutex) entry(key string) *keyedLockEntry {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedLockEntry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()
	return e
}

func (k *keyedMutex) release(key string, e *keyedLockEntry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}

// Lock acquires the mutex for key exclusively, blocking until it is
// available, and returns the matching unlock function.
func (k *keyedMutex) Lock(key string) (unlock func()) {
	e := k.entry(key)
	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.release(key, e)
	}
}

// RLock acquires the mutex for key shared: RLock holders admit each
// other but exclude and are excluded by Lock holders.
func (k *keyedMutex) RLock(key string) (unlock func()) {
	e := k.entry(key)
	e.mu.RLock()
	return func() {
		e.mu.RUnlock()
		k.release(key, e)
	}
}
