package tasks

import (
	"context"

	"teamdesk/internal/app/commands"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	"teamdesk/internal/domain/shared/apperr"
	domaintask "teamdesk/internal/domain/task"
)

const deleteTaskKey = "tasks.delete"

// DeleteTaskCommand removes a task. Only the creator may delete.
type DeleteTaskCommand struct {
	CallerID string
	TaskID   string
}

func (c DeleteTaskCommand) Key() string { return deleteTaskKey }

type DeleteTaskResult struct {
	Deleted bool `json:"deleted"`
}

type DeleteTaskHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) (*DeleteTaskResult, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	id := domaintask.TaskID(cmd.TaskID)
	if err := unit.Tasks().DeleteByCreator(ctx, id, cmd.CallerID); err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaintask.NewTaskDeleted(id)); err != nil {
		return nil, err
	}
	return &DeleteTaskResult{Deleted: true}, nil
}

var _ commands.Handler[DeleteTaskCommand, *DeleteTaskResult] = (*DeleteTaskHandler)(nil)
