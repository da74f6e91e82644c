package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://lifter@localhost:5432/liftlit?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestDeleteAndNotFound(t *testing.T) {
	gokeyring.MockInit()

	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteConnectionString() on empty keyring = %v, want ErrNotFound", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() = %v, want ErrNotFound", err)
	}
}

func TestResolveConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if _, err := ResolveConnectionString(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve with nothing stored = %v, want ErrNotFound", err)
	}

	stored := "postgres://lifter@db/liftlit"
	if err := SetConnectionString(stored); err != nil {
		t.Fatal(err)
	}
	if got, err := ResolveConnectionString(""); err != nil || got != stored {
		t.Errorf("Resolve from keyring = %q, %v", got, err)
	}
	if got, _ := ResolveConnectionString("postgres://other@db/liftlit"); got != "postgres://other@db/liftlit" {
		t.Errorf("configured DSN should win, got %q", got)
	}
}

func TestIsAvailableWithMock(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	t.Cleanup(gokeyring.MockInit)

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing keyring")
	}
}
