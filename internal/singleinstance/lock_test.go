//go:build unix || windows

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func testName(t *testing.T) string {
	return fmt.Sprintf("tambourine-test-%s-%d", sanitize(t.Name()), os.Getpid())
}

func TestTryLock(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "second lock returns ErrAlreadyRunning",
			run: func(t *testing.T) {
				name := testName(t)
				lock1, err := TryLock(name)
				if err != nil {
					t.Fatalf("first TryLock: %v", err)
				}
				defer lock1.Release()

				lock2, err := TryLock(name)
				if !errors.Is(err, ErrAlreadyRunning) {
					t.Fatalf("second TryLock: got err=%v, want ErrAlreadyRunning", err)
				}
				if lock2 != nil {
					t.Fatal("second TryLock returned non-nil lock")
				}
			},
		},
		{
			name: "lock reacquirable after release",
			run: func(t *testing.T) {
				name := testName(t)
				lock1, err := TryLock(name)
				if err != nil {
					t.Fatalf("first TryLock: %v", err)
				}
				if err := lock1.Release(); err != nil {
					t.Fatalf("Release: %v", err)
				}
				lock2, err := TryLock(name)
				if err != nil {
					t.Fatalf("TryLock after release: %v", err)
				}
				defer lock2.Release()
			},
		},
		{
			name: "release idempotent and nil-safe",
			run: func(t *testing.T) {
				lock, err := TryLock(testName(t))
				if err != nil {
					t.Fatalf("TryLock: %v", err)
				}
				if err := lock.Release(); err != nil {
					t.Fatalf("first Release: %v", err)
				}
				if err := lock.Release(); err != nil {
					t.Fatalf("second Release: %v", err)
				}
				var nilLock *Lock
				if err := nilLock.Release(); err != nil {
					t.Fatalf("nil Release: %v", err)
				}
			},
		},
		{
			name: "empty name returns error",
			run: func(t *testing.T) {
				if lock, err := TryLock(""); err == nil || lock != nil {
					t.Fatalf("TryLock(\"\") = %v, %v", lock, err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.run)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"DOMAIN\\user", "DOMAIN_user"},
		{"user@domain.com", "user_domain.com"},
		{"", "unknown"},
		{"  ", "unknown"},
	}
	for _, tt := range tests {
		if got := sanitize(tt.input); got != tt.want {
			t.Errorf("sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
