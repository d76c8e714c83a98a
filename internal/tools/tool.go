// Package tools exposes store operations as named tools taking a flat JSON
// argument object and returning a tagged result.
package tools

import (
	"context"
	"encoding/json"
	"net/http"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/workspace"
)

// Tool is one named operation.
type Tool interface {
	Name() string
	Description() string
	// Parameters is the JSON schema of the argument object.
	Parameters() any
	// NeedsConfirmation marks destructive tools; callers must pass
	// "confirm": true.
	NeedsConfirmation() bool
	Execute(ctx context.Context, ws *workspace.Workspace, args json.RawMessage) (any, error)
}

// Result is the tagged outcome of a tool call.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Ok wraps data in a successful result.
func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

// Fail converts err into a failed result carrying its code.
func Fail(err error) Result {
	res := Result{Error: err.Error(), Code: string(apperrors.CodeOf(err))}
	var appErr *apperrors.Error
	if apperrors.As(err, &appErr) {
		res.Details = appErr.Details
	}
	return res
}

// Status returns the HTTP status matching the result.
func (r Result) Status() int {
	if r.Success {
		return http.StatusOK
	}
	return apperrors.Code(r.Code).HTTPStatus()
}

// Def describes a tool for listings.
type Def struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	Parameters        any    `json:"inputSchema"`
	NeedsConfirmation bool   `json:"needsConfirmation,omitempty"`
}

type runFunc func(ctx context.Context, ws *workspace.Workspace, args json.RawMessage) (any, error)

// funcTool is a Tool backed by a closure.
type funcTool struct {
	name        string
	description string
	params      map[string]any
	confirm     bool
	run         runFunc
}

func (t *funcTool) Name() string            { return t.name }
func (t *funcTool) Description() string     { return t.description }
func (t *funcTool) Parameters() any         { return t.params }
func (t *funcTool) NeedsConfirmation() bool { return t.confirm }

func (t *funcTool) Execute(ctx context.Context, ws *workspace.Workspace, args json.RawMessage) (any, error) {
	return t.run(ctx, ws, args)
}

// decode unmarshals tool arguments into T.
func decode[T any](args json.RawMessage) (T, error) {
	var v T
	if len(args) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(args, &v); err != nil {
		return v, apperrors.Validation("invalid arguments: %v", err)
	}
	return v, nil
}
