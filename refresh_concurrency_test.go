package hiveauth

import (
	"context"
	"sync"
	"testing"
	"time"
)

// Many goroutines observing an expired cache must collapse into a single
// provider round trip, and every one of them must come back with the
// refreshed set.
func TestConcurrentRefreshSingleFlight(t *testing.T) {
	p := &fakeProvider{refreshDelay: 20 * time.Millisecond}
	engine := newTestEngine(t, p)
	loginDirect(t, engine, p, 3600, nil)
	expireCachedTokens(t, engine)

	const goroutines = 16

	results := make([]*TokenSet, goroutines)
	errs := make([]error, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.ValidTokens(context.Background())
		}(i)
	}
	wg.Wait()

	for i := 0; i < goroutines; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: %v", i, errs[i])
		}
		if results[i].AccessToken != "access-refreshed" {
			t.Fatalf("goroutine %d: access token = %q, want access-refreshed", i, results[i].AccessToken)
		}
		if results[i].RefreshToken != "refresh-1" {
			t.Fatalf("goroutine %d: refresh token = %q, want refresh-1", i, results[i].RefreshToken)
		}
	}

	if got := p.refreshCount(); got != 1 {
		t.Fatalf("refresh calls = %d, want exactly 1", got)
	}
}

// A refresh in flight must not block logins on other engines or reads that
// only touch device state.
func TestRefreshDoesNotBlockDeviceReads(t *testing.T) {
	p := &fakeProvider{refreshDelay: 30 * time.Millisecond}
	engine := newTestEngine(t, p)
	loginDirect(t, engine, p, 3600, nil)
	engine.setTrustedDevice(TrustedDevice{DeviceGroupKey: "group-1", DeviceKey: "device-key-1", DevicePassword: "secret"})
	expireCachedTokens(t, engine)

	started := make(chan struct{})
	go func() {
		close(started)
		if _, err := engine.ValidTokens(context.Background()); err != nil {
			t.Errorf("refresh: %v", err)
		}
	}()
	<-started

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, ok := engine.TrustedDevice(); !ok {
			t.Error("trusted device not visible during refresh")
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("device read blocked behind an in-flight refresh")
	}
}
