package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/studyplan/internal/constants"
)

func TestSetAndGet(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(constants.KeyringUserAPIKey, "sk-ant-test"); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := APIKey()
	if err != nil {
		t.Fatalf("APIKey() failed: %v", err)
	}
	if got != "sk-ant-test" {
		t.Errorf("APIKey() = %q, want %q", got, "sk-ant-test")
	}

	if _, err := ConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("ConnectionString() error = %v, want ErrNotFound", err)
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()

	if err := Set(constants.KeyringUserConnection, ""); err == nil {
		t.Error("Set with empty value should return an error")
	}
}

func TestDelete(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://studyplan@localhost:5432/studyplan"
	if err := Set(constants.KeyringUserConnection, connStr); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := Delete(constants.KeyringUserConnection); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := ConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("value still present after Delete: %v", err)
	}
	if err := Delete(constants.KeyringUserConnection); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("mock keyring should be available")
	}
}

func TestUnavailableKeyring(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	defer gokeyring.MockInit()

	if IsAvailable() {
		t.Error("keyring reporting errors should be unavailable")
	}
	if _, err := APIKey(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("APIKey() error = %v, want ErrKeyringUnavailable", err)
	}
}
