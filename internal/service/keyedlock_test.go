package service

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := newKeyedMutex()

	const workers = 50
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("session:1:2025-06-02")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("counter = %d, want %d", counter, workers)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.Lock("session:1:2025-06-02")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock("session:2:2025-06-02")
		unlockB()
		close(done)
	}()
	<-done
}

func TestKeyedMutexSharedHoldersAdmitEachOther(t *testing.T) {
	km := newKeyedMutex()

	unlockA := km.RLock("class:1")
	done := make(chan struct{})
	go func() {
		unlockB := km.RLock("class:1")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestKeyedMutexExclusiveExcludesShared(t *testing.T) {
	km := newKeyedMutex()

	unlock := km.Lock("class:1")

	started := make(chan struct{})
	entered := make(chan struct{})
	go func() {
		close(started)
		u := km.RLock("class:1")
		close(entered)
		u()
	}()

	<-started
	time.Sleep(10 * time.Millisecond)
	select {
	case <-entered:
		t.Fatal("RLock acquired while an exclusive holder was active")
	default:
	}

	unlock()
	<-entered
}

func TestKeyedMutexReleasesEntries(t *testing.T) {
	km := newKeyedMutex()
	unlock := km.Lock("class:7")
	runlock := km.RLock("class:8")
	unlock()
	runlock()

	km.mu.Lock()
	defer km.mu.Unlock()
	if len(km.locks) != 0 {
		t.Fatalf("entries = %d, want 0 after release", len(km.locks))
	}
}
