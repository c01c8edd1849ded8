package ui

import (
	"strings"
	"testing"
)

func TestTable(t *testing.T) {
	var table Table
	table.AddRow("alice", "#a #b")
	table.AddRow("bob", "#a")
	table.AddRow("ニック", "")

	if table.Len() != 3 {
		t.Errorf("expected 3 rows, got %d", table.Len())
	}

	var sb strings.Builder
	if _, err := table.WriteTo(&sb); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	expected := "alice   #a #b\n" +
		"bob     #a\n" +
		"ニック  \n"
	if sb.String() != expected {
		t.Errorf("expected %q, got %q", expected, sb.String())
	}
}

func TestEmptyTable(t *testing.T) {
	var table Table
	var sb strings.Builder
	n, err := table.WriteTo(&sb)
	if err != nil || n != 0 || sb.Len() != 0 {
		t.Errorf("expected nothing written, got %d bytes (%v)", n, err)
	}
}
