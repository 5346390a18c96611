package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDelete Type = "delete"
	TypeStats  Type = "stats"
	TypeRecord Type = "record"
	TypeFilter Type = "filter"
	TypeSort   Type = "sort"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

const dueLayout = "2006-01-02"

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Name            string
	Status          string
	Priority        int
	Tags            []string
	TargetPomodoros int
	DueAt           *time.Time
}

type TargetArgs struct {
	Name string
}

type FilterArgs struct {
	Status string
	Tag    string
}

type SortArgs struct {
	By         string
	Descending bool
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Filter *FilterArgs
	Sort   *SortArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDelete, TypeStats, TypeRecord:
		return parseTarget(input, Type(head), args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeSort:
		return parseSort(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, isOption := splitOption(arg)
		switch {
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Tags = append(out.Tags, arg[1:])
		case isOption && (key == "p" || key == "priority"):
			n, err := strconv.Atoi(value)
			if err != nil {
				return Command{}, invalidArg("priority must be a number: %q", value)
			}
			out.Priority = n
		case isOption && key == "target":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return Command{}, invalidArg("target must be a non-negative number: %q", value)
			}
			out.TargetPomodoros = n
		case isOption && key == "due":
			due, err := time.ParseInLocation(dueLayout, value, time.Local)
			if err != nil {
				return Command{}, invalidArg("due must look like %s: %q", dueLayout, value)
			}
			out.DueAt = &due
		case isOption && key == "status":
			out.Status = value
		default:
			words = append(words, arg)
		}
	}
	out.Name = strings.TrimSpace(strings.Join(words, " "))
	if out.Name == "" {
		return Command{}, invalidArg("add requires a task name")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, invalidArg("%s requires a task name", typ)
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Name: name}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	out := FilterArgs{}
	for _, arg := range args {
		key, value, isOption := splitOption(arg)
		switch {
		case strings.HasPrefix(arg, "#") && len(arg) > 1:
			out.Tag = arg[1:]
		case isOption && key == "tag":
			out.Tag = value
		case isOption && key == "status":
			out.Status = value
		default:
			return Command{}, invalidArg("unexpected filter argument %q", arg)
		}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &out}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) == 0 || len(args) > 2 {
		return Command{}, invalidArg("sort requires a key and an optional asc|desc")
	}
	out := SortArgs{By: strings.ToLower(args[0]), Descending: true}
	if len(args) == 2 {
		switch strings.ToLower(args[1]) {
		case "asc":
			out.Descending = false
		case "desc":
			out.Descending = true
		default:
			return Command{}, invalidArg("sort direction must be asc or desc: %q", args[1])
		}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &out}, nil
}

func splitOption(arg string) (string, string, bool) {
	key, value, ok := strings.Cut(arg, ":")
	if !ok || key == "" || value == "" {
		return "", "", false
	}
	return strings.ToLower(key), value, true
}

func invalidArg(format string, args ...any) *CommandError {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}
