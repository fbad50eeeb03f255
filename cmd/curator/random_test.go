package main

import (
	"strings"
	"testing"
)

func TestEvictionNotice(t *testing.T) {
	got := evictionNotice("notes/gone.md")

	if !strings.Contains(got, "notes/gone.md") {
		t.Errorf("evictionNotice() = %q, missing the path", got)
	}
	if !strings.Contains(got, "missing") {
		t.Errorf("evictionNotice() = %q, does not say the target is missing", got)
	}
}
