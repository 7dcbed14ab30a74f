package tasks

import (
	"context"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	"teamdesk/internal/domain/shared/apperr"
	domaintask "teamdesk/internal/domain/task"
)

const getTaskKey = "tasks.get"

// GetTaskQuery fetches one task the caller may see.
type GetTaskQuery struct {
	CallerID string
	TaskID   string
}

func (q GetTaskQuery) Key() string { return getTaskKey }

type GetTaskHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetTaskHandler) Handle(ctx context.Context, q GetTaskQuery) (dto.Task, error) {
	if q.CallerID == "" {
		return dto.Task{}, apperr.MissingIdentity()
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Task{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	task, err := unit.Tasks().ByIDForContact(execCtx, domaintask.TaskID(q.TaskID), q.CallerID)
	if err != nil {
		return dto.Task{}, err
	}
	return dto.MapTask(task), nil
}

var _ queries.Handler[GetTaskQuery, dto.Task] = (*GetTaskHandler)(nil)
