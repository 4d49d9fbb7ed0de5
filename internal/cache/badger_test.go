// Servicebridge - Services Marketplace Recommendation and Analytics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/servicebridge

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

func newTestBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("badger.Open() error = %v", err)
	}
	s := newBadgerStoreWithDB(db, time.Minute)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStoreGetSet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestBadgerStore(t)

	if _, ok, err := s.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) = %v, %v; want miss", ok, err)
	}
	if err := s.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || string(got) != "v1" {
		t.Fatalf("Get(k) = %q, %v, %v", got, ok, err)
	}
}

func TestBadgerStoreDeletePrefixAndClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestBadgerStore(t)

	c2 := ScopePrefix(CustomerScope(2))
	_ = s.Set(ctx, c2+"a", []byte("x"))
	_ = s.Set(ctx, c2+"b", []byte("x"))
	_ = s.Set(ctx, ScopePrefix(CustomerScope(20))+"a", []byte("x"))

	n, err := s.DeletePrefix(ctx, c2)
	if err != nil || n != 2 {
		t.Fatalf("DeletePrefix() = %d, %v; want 2, nil", n, err)
	}
	if _, ok, _ := s.Get(ctx, c2+"a"); ok {
		t.Error("deleted key still readable")
	}
	if _, ok, _ := s.Get(ctx, ScopePrefix(CustomerScope(20))+"a"); !ok {
		t.Error("customer 20 key should survive")
	}

	if n, _ := s.DeletePrefix(ctx, "nothing/"); n != 0 {
		t.Errorf("DeletePrefix(no match) = %d, want 0", n)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, ScopePrefix(CustomerScope(20))+"a"); ok {
		t.Error("Clear() left entries behind")
	}
	if err := s.RunValueLogGC(); err != nil {
		t.Errorf("RunValueLogGC() error = %v", err)
	}
}

func TestNewBadgerStoreCreatesDirectory(t *testing.T) {
	t.Parallel()
	dir := t.TempDir() + "/nested/cache"
	s, err := NewBadgerStore(dir, 0)
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	defer s.Close()
	if s.ttl != 5*time.Minute {
		t.Errorf("default ttl = %v, want 5m", s.ttl)
	}
	if s.Name() != "badger" {
		t.Errorf("Name() = %q", s.Name())
	}
}
