package core

import (
	"errors"
	"testing"
)

func TestDomainError_Checks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"config not found", NewDomainError(ModuleConfig, ErrorCodeConfigNotFound, "x"), IsConfigNotFound, true},
		{"no active config", NewDomainError(ModuleConfig, ErrorCodeNoActiveConfig, "x"), IsNoActiveConfig, true},
		{"invalid config", NewDomainError(ModuleConfig, ErrorCodeInvalidConfig, "x"), IsInvalidConfig, true},
		{"storage", WrapStorageError(ModuleCatalog, errors.New("down")), IsStorage, true},
		{"not found", ErrStoreNotFound, IsNotFound, true},
		{"not supported", ErrStoreNotSupported, IsNotSupported, true},
		{"wrong code", NewDomainError(ModuleConfig, ErrorCodeInvalidConfig, "x"), IsConfigNotFound, false},
		{"plain error", errors.New("boom"), IsStorage, false},
		{"nil error", nil, IsConfigNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapStorageError_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapStorageError(ModuleCache, cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	de := GetDomainError(err)
	if de == nil || de.Module != ModuleCache || de.Code != ErrorCodeStorage {
		t.Errorf("GetDomainError() = %+v", de)
	}
	if err.Error() != "cache: storage failure: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestGetDomainError_NonDomain(t *testing.T) {
	if GetDomainError(errors.New("plain")) != nil {
		t.Error("plain errors are not domain errors")
	}
	if GetDomainError(nil) != nil {
		t.Error("nil is not a domain error")
	}
}
