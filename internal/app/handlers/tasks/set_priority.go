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

const setTaskPriorityKey = "tasks.priority.set"

// SetTaskPriorityCommand reprioritizes a task.
type SetTaskPriorityCommand struct {
	CallerID string
	TaskID   string
	Priority int
}

func (c SetTaskPriorityCommand) Key() string { return setTaskPriorityKey }

type SetTaskPriorityHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *SetTaskPriorityHandler) Handle(ctx context.Context, cmd SetTaskPriorityCommand) (*dto.Task, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if !domaintask.ValidPriority(cmd.Priority) {
		return nil, apperr.Validation("priority must be between 1 and 5")
	}
	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	task, err := unit.Tasks().SetPriorityByCreator(ctx, domaintask.TaskID(cmd.TaskID), cmd.CallerID, cmd.Priority)
	if err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaintask.NewTaskUpdated(task.ID)); err != nil {
		return nil, err
	}
	out := dto.MapTask(task)
	return &out, nil
}

var _ commands.Handler[SetTaskPriorityCommand, *dto.Task] = (*SetTaskPriorityHandler)(nil)
