package core

import "errors"

// Policy rejections returned by Store.Dispatch. A rejected intent never
// changes state. Intents that reference missing IDs are not errors; they are
// silently ignored.
var (
	ErrEmptyText          = errors.New("text must not be empty")
	ErrBlocked            = errors.New("entity is blocked by an incomplete dependency")
	ErrHasChildren        = errors.New("completion is derived from children")
	ErrDependencyCycle    = errors.New("dependency would create a cycle")
	ErrNoParent           = errors.New("a valid parent must be selected")
	ErrInvalidAction      = errors.New("invalid inbox action")
	ErrReviewUnavailable  = errors.New("weekly review requires last week's goals")
	ErrWrongStep          = errors.New("intent does not match the current step")
	ErrRolloverPending    = errors.New("yesterday's unfinished tasks must be resolved first")
	ErrInvalidDate        = errors.New("date must use the yyyy-mm-dd format")
	ErrInvalidImport      = errors.New("import document is invalid")
	ErrUnknownImportMode  = errors.New("unknown import mode")
	ErrInvalidTaskOptions = errors.New("invalid task options")
)
