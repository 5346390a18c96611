package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Delete func(TargetArgs) (Result, error)
	Stats  func(TargetArgs) (Result, error)
	Record func(TargetArgs) (Result, error)
	Filter func(FilterArgs) (Result, error)
	Sort   func(SortArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDelete:
		if handlers.Delete == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Delete(*cmd.Target)
	case TypeStats:
		if handlers.Stats == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Stats(*cmd.Target)
	case TypeRecord:
		if handlers.Record == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Record(*cmd.Target)
	case TypeFilter:
		if handlers.Filter == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Filter(*cmd.Filter)
	case TypeSort:
		if handlers.Sort == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Sort(*cmd.Sort)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) *CommandError {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
