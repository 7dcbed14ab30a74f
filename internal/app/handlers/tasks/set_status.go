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

const setTaskStatusKey = "tasks.status.set"

// SetTaskStatusCommand transitions a task's status. Completing stamps
// completed_at; any other status clears it.
type SetTaskStatusCommand struct {
	CallerID string
	TaskID   string
	Status   string
}

func (c SetTaskStatusCommand) Key() string { return setTaskStatusKey }

type SetTaskStatusHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *SetTaskStatusHandler) Handle(ctx context.Context, cmd SetTaskStatusCommand) (*dto.Task, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	if !domaintask.ValidStatus(cmd.Status) {
		return nil, apperr.Validation("unknown task status")
	}
	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}
	task, err := unit.Tasks().SetStatusByCreator(ctx, domaintask.TaskID(cmd.TaskID), cmd.CallerID, cmd.Status)
	if err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaintask.NewTaskUpdated(task.ID)); err != nil {
		return nil, err
	}
	out := dto.MapTask(task)
	return &out, nil
}

var _ commands.Handler[SetTaskStatusCommand, *dto.Task] = (*SetTaskStatusHandler)(nil)
