package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunRequiresCommand(t *testing.T) {
	err := run(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "usage:") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"lineage"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunSubcommandCompletes(t *testing.T) {
	args := []string{"run", "-population", "4", "-nodes", "3", "-generations", "1", "-seed", "7", "-report=false"}
	if err := run(context.Background(), args); err != nil {
		t.Fatalf("run subcommand: %v", err)
	}
}

func TestQueryCommandsRequireRunID(t *testing.T) {
	for _, command := range []string{"fitness", "diagnostics", "top", "population"} {
		err := run(context.Background(), []string{command})
		if err == nil || !strings.Contains(err.Error(), "--run-id") {
			t.Errorf("%s: expected run-id error, got %v", command, err)
		}
	}
	if err := run(context.Background(), []string{"export"}); err == nil {
		t.Error("export: expected genome-id error")
	}
}
