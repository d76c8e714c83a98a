package tools

import (
	"context"
	"encoding/json"
	"time"

	apperrors "github.com/linonon/aibookmarks/internal/errors"
	"github.com/linonon/aibookmarks/internal/logger"
	"github.com/linonon/aibookmarks/internal/schema"
	"github.com/linonon/aibookmarks/internal/workspace"
)

// Workspaces resolves the workspace a call targets.
type Workspaces interface {
	Get(ctx context.Context, root string) (*workspace.Workspace, error)
}

// Registry holds the tools and runs calls through validation.
type Registry struct {
	tools      map[string]Tool
	order      []string
	validator  *schema.Validator
	workspaces Workspaces
	logger     logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(ws Workspaces, log logger.Logger) *Registry {
	return &Registry{
		tools:      make(map[string]Tool),
		validator:  schema.NewValidator(),
		workspaces: ws,
		logger:     log,
	}
}

// Register adds a tool, replacing any tool of the same name.
func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Defs lists every tool in registration order.
func (r *Registry) Defs() []Def {
	defs := make([]Def, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Def{
			Name:              t.Name(),
			Description:       t.Description(),
			Parameters:        t.Parameters(),
			NeedsConfirmation: t.NeedsConfirmation(),
		})
	}
	return defs
}

// common holds the arguments every tool accepts.
type common struct {
	Workspace string `json:"workspace"`
	Confirm   bool   `json:"confirm"`
}

// Execute runs a tool call. Failures never escape as Go errors; they are
// reported in the result.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) Result {
	start := time.Now()
	res := r.execute(ctx, name, args)

	fields := []logger.Field{
		logger.String("tool", name),
		logger.Bool("success", res.Success),
		logger.Duration("duration", time.Since(start)),
	}
	if !res.Success {
		fields = append(fields, logger.String("code", res.Code), logger.String("error", res.Error))
		r.logger.Warn("tool call failed", fields...)
	} else {
		r.logger.Debug("tool call", fields...)
	}
	return res
}

func (r *Registry) execute(ctx context.Context, name string, args json.RawMessage) Result {
	t, ok := r.tools[name]
	if !ok {
		return Fail(apperrors.NotFound("unknown tool: %s", name))
	}

	if err := r.validator.Validate(t.Parameters(), args); err != nil {
		return Fail(err)
	}

	c, err := decode[common](args)
	if err != nil {
		return Fail(err)
	}
	if t.NeedsConfirmation() && !c.Confirm {
		return Fail(apperrors.Validation("%s is destructive and requires \"confirm\": true", name))
	}

	ws, err := r.workspaces.Get(ctx, c.Workspace)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrValidation) {
			return Fail(err)
		}
		return Fail(apperrors.Internal("failed to open workspace", err))
	}

	data, err := t.Execute(ctx, ws, args)
	if err != nil {
		return Fail(err)
	}
	return Ok(data)
}
