package commands

import (
	"errors"
	"testing"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add Design UI p:3 #design", TypeAdd},
		{"delete Design UI", TypeDelete},
		{"stats Design UI", TypeStats},
		{"record Design UI", TypeRecord},
		{"filter #urgent", TypeFilter},
		{"/sort priority desc", TypeSort},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add Implement timer logic p:3 #code #urgent target:6 due:2026-03-01 status:Doing")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	a := cmd.Add
	if a.Name != "Implement timer logic" || a.Priority != 3 || a.TargetPomodoros != 6 || a.Status != "Doing" {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if len(a.Tags) != 2 || a.Tags[0] != "code" || a.Tags[1] != "urgent" {
		t.Fatalf("unexpected tags: %v", a.Tags)
	}
	if a.DueAt == nil || a.DueAt.Month() != 3 || a.DueAt.Day() != 1 {
		t.Fatalf("unexpected due: %v", a.DueAt)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	for _, in := range []string{
		"add",
		"add #only-tags",
		"add x p:high",
		"add x target:-1",
		"add x due:tomorrow",
		"delete",
		"stats   ",
		"filter urgent",
		"sort",
		"sort priority sideways",
	} {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", in, err)
		}
	}
}

func TestParseSortDefaultsToDescending(t *testing.T) {
	cmd, err := Parse("sort due_at")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Sort.By != "due_at" || !cmd.Sort.Descending {
		t.Fatalf("unexpected sort args: %+v", cmd.Sort)
	}
	cmd, err = Parse("sort created_at asc")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Sort.Descending {
		t.Fatalf("expected ascending: %+v", cmd.Sort)
	}
}

func TestParseFilterOptions(t *testing.T) {
	cmd, err := Parse("filter status:Done tag:docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Filter.Status != "Done" || cmd.Filter.Tag != "docs" {
		t.Fatalf("unexpected filter: %+v", cmd.Filter)
	}
	cmd, err = Parse("filter")
	if err != nil {
		t.Fatalf("parse empty filter failed: %v", err)
	}
	if *cmd.Filter != (FilterArgs{}) {
		t.Fatalf("expected empty filter: %+v", cmd.Filter)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}

	_, err = Parse("   /  ")
	if !errors.As(err, &ce) || ce.Code != ErrCodeEmptyInput {
		t.Fatalf("expected empty input error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Name != "write docs" {
				t.Fatalf("unexpected name: %q", a.Name)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("stats something")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
