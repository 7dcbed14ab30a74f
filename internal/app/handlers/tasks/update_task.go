package tasks

import (
	"context"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	"teamdesk/internal/domain/shared/apperr"
	domaintask "teamdesk/internal/domain/task"
)

const updateTaskKey = "tasks.update"

// UpdateTaskCommand merges changes into a task. Only the creator may modify.
type UpdateTaskCommand struct {
	CallerID string
	TaskID   string
	Fields   domaintask.UpdateFields
}

func (c UpdateTaskCommand) Key() string { return updateTaskKey }

type UpdateTaskHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*dto.Task, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if cmd.Fields.Status != nil && !domaintask.ValidStatus(*cmd.Fields.Status) {
		return nil, apperr.Validation("unknown task status")
	}
	if cmd.Fields.Priority != nil && !domaintask.ValidPriority(*cmd.Fields.Priority) {
		return nil, apperr.Validation("priority must be between 1 and 5")
	}

	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	task, err := unit.Tasks().UpdateByCreator(ctx, domaintask.TaskID(cmd.TaskID), cmd.CallerID, cmd.Fields)
	if err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaintask.NewTaskUpdated(task.ID)); err != nil {
		return nil, err
	}
	out := dto.MapTask(task)
	return &out, nil
}

var _ commands.Handler[UpdateTaskCommand, *dto.Task] = (*UpdateTaskHandler)(nil)
