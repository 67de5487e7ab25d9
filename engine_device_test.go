package hiveauth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func manualConfirmConfig() Config {
	cfg := defaultConfig()
	cfg.AutoConfirmDevice = false
	return cfg
}

func TestConfirmDeviceWithoutIdentity(t *testing.T) {
	engine := newTestEngineWithConfig(t, &fakeProvider{}, manualConfirmConfig())

	_, err := engine.ConfirmDevice(context.Background(), "kitchen-pi")
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestConfirmDevicePromotesUntrustedIdentity(t *testing.T) {
	p := &fakeProvider{}
	engine := newTestEngineWithConfig(t, p, manualConfirmConfig())
	loginDirect(t, engine, p, 3600, &NewDeviceMetadata{DeviceGroupKey: "group-1", DeviceKey: "device-key-1"})

	if p.confirmCalls != 0 {
		t.Fatalf("confirm calls after login = %d, want 0 with auto-confirm off", p.confirmCalls)
	}
	if _, ok := engine.TrustedDevice(); ok {
		t.Fatal("device trusted before confirmation")
	}

	trusted, err := engine.ConfirmDevice(context.Background(), "kitchen-pi")
	if err != nil {
		t.Fatalf("confirm device: %v", err)
	}

	if trusted.DeviceKey != "device-key-1" || trusted.DeviceGroupKey != "group-1" {
		t.Fatalf("unexpected device identity: %+v", trusted)
	}
	if trusted.DevicePassword != "generated-device-secret" {
		t.Fatalf("device password = %q, want the generated secret", trusted.DevicePassword)
	}
	if p.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, want 1", p.confirmCalls)
	}

	got, ok := engine.TrustedDevice()
	if !ok || got != *trusted {
		t.Fatalf("trusted device on file = %+v, want %+v", got, *trusted)
	}
}

func TestConfirmDeviceTwice(t *testing.T) {
	p := &fakeProvider{}
	engine := newTestEngineWithConfig(t, p, manualConfirmConfig())
	loginDirect(t, engine, p, 3600, &NewDeviceMetadata{DeviceGroupKey: "group-1", DeviceKey: "device-key-1"})

	first, err := engine.ConfirmDevice(context.Background(), "kitchen-pi")
	if err != nil {
		t.Fatalf("first confirm: %v", err)
	}

	if _, err := engine.ConfirmDevice(context.Background(), "kitchen-pi"); !errors.Is(err, ErrDeviceAlreadyTrusted) {
		t.Fatalf("expected ErrDeviceAlreadyTrusted, got %v", err)
	}

	got, ok := engine.TrustedDevice()
	if !ok || got.DevicePassword != first.DevicePassword {
		t.Fatal("stored device secret changed on a rejected re-confirmation")
	}
	if p.confirmCalls != 1 {
		t.Fatalf("confirm calls = %d, want 1", p.confirmCalls)
	}
}

func TestConfirmDeviceStatusUpdateGating(t *testing.T) {
	for _, necessary := range []bool{false, true} {
		p := &fakeProvider{}
		p.confirmFn = func(req ConfirmDeviceRequest) (bool, error) {
			return necessary, nil
		}
		engine := newTestEngineWithConfig(t, p, manualConfirmConfig())
		loginDirect(t, engine, p, 3600, &NewDeviceMetadata{DeviceGroupKey: "group-1", DeviceKey: "device-key-1"})

		if _, err := engine.ConfirmDevice(context.Background(), "kitchen-pi"); err != nil {
			t.Fatalf("necessary=%v: confirm device: %v", necessary, err)
		}

		want := 0
		if necessary {
			want = 1
		}
		if p.statusCalls != want {
			t.Fatalf("necessary=%v: status calls = %d, want %d", necessary, p.statusCalls, want)
		}
	}
}

func TestConfirmDeviceStatusUpdateFailure(t *testing.T) {
	p := &fakeProvider{}
	p.confirmFn = func(req ConfirmDeviceRequest) (bool, error) { return true, nil }
	p.statusErr = errors.New("denied")
	engine := newTestEngineWithConfig(t, p, manualConfirmConfig())
	loginDirect(t, engine, p, 3600, &NewDeviceMetadata{DeviceGroupKey: "group-1", DeviceKey: "device-key-1"})

	_, err := engine.ConfirmDevice(context.Background(), "kitchen-pi")
	if !errors.Is(err, ErrDeviceConfirmationFailed) {
		t.Fatalf("expected ErrDeviceConfirmationFailed, got %v", err)
	}
	if _, ok := engine.TrustedDevice(); ok {
		t.Fatal("device recorded as trusted after a failed confirmation")
	}
}

func TestConfirmDeviceGeneratedName(t *testing.T) {
	p := &fakeProvider{}
	var gotName string
	p.confirmFn = func(req ConfirmDeviceRequest) (bool, error) {
		gotName = req.DeviceName
		return false, nil
	}
	engine := newTestEngineWithConfig(t, p, manualConfirmConfig())
	loginDirect(t, engine, p, 3600, &NewDeviceMetadata{DeviceGroupKey: "group-1", DeviceKey: "device-key-1"})

	if _, err := engine.ConfirmDevice(context.Background(), ""); err != nil {
		t.Fatalf("confirm device: %v", err)
	}

	if !strings.HasPrefix(gotName, "hiveauth-") || len(gotName) != len("hiveauth-")+8 {
		t.Fatalf("generated device name = %q, want hiveauth- prefix with a short suffix", gotName)
	}
}

func TestForgetDevice(t *testing.T) {
	p := &fakeProvider{}
	engine := newTestEngine(t, p)
	engine.setTrustedDevice(TrustedDevice{DeviceGroupKey: "group-1", DeviceKey: "device-key-1", DevicePassword: "secret"})

	engine.ForgetDevice()

	if _, ok := engine.TrustedDevice(); ok {
		t.Fatal("device reference survived ForgetDevice")
	}
}
