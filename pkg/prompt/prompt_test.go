package prompt

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollectMatchingPasswords(t *testing.T) {
	driver := &Scripted{Answers: []string{"admin", "secret", "secret"}}
	creds, err := Collect(context.Background(), driver)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	want := Credentials{Username: "admin", Password: "secret"}
	if diff := cmp.Diff(want, creds); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectRetriesUntilMatch(t *testing.T) {
	driver := &Scripted{Answers: []string{"admin", "first", "second", "third", "fourth", "secret", "secret"}}
	creds, err := Collect(context.Background(), driver)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if creds.Password != "secret" {
		t.Errorf("password = %q, want %q", creds.Password, "secret")
	}

	mismatches := 0
	for _, msg := range driver.Infos {
		if msg == "Passwords do not match. Please try again." {
			mismatches++
		}
	}
	if mismatches != 2 {
		t.Errorf("mismatch notices = %d, want 2", mismatches)
	}
}

func TestCollectDrainedDriver(t *testing.T) {
	driver := &Scripted{Answers: []string{"admin", "first", "second"}}
	if _, err := Collect(context.Background(), driver); err == nil {
		t.Error("expected error when the scripted driver runs out of answers")
	}
}

func TestCollectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	driver := &Scripted{Answers: []string{"admin", "secret", "secret"}}
	if _, err := Collect(ctx, driver); err == nil {
		t.Error("expected error for cancelled context")
	}
}
