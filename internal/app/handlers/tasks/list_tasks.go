package tasks

import (
	"context"

	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
	domaintask "teamdesk/internal/domain/task"
)

const listTasksKey = "tasks.list"

// ListTasksQuery pages tasks the caller created, is assigned to, or watches.
type ListTasksQuery struct {
	CallerID string
	Params   query.ListParams
}

func (q ListTasksQuery) Key() string { return listTasksKey }

type ListTasksHandler struct {
	UoWFactory uow.UoWFactory
	Limits     query.Limits
}

func (h *ListTasksHandler) Handle(ctx context.Context, q ListTasksQuery) (dto.TaskCollection, error) {
	if q.CallerID == "" {
		return dto.TaskCollection{}, apperr.MissingIdentity()
	}
	params, err := q.Params.Normalize(domaintask.Fields(), h.Limits)
	if err != nil {
		return dto.TaskCollection{}, err
	}

	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.TaskCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	page, err := unit.Tasks().ListForContact(execCtx, q.CallerID, params)
	if err != nil {
		return dto.TaskCollection{}, err
	}
	return dto.MapTaskPage(page), nil
}

var _ queries.Handler[ListTasksQuery, dto.TaskCollection] = (*ListTasksHandler)(nil)
