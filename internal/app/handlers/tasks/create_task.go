package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	handlersupport "teamdesk/internal/app/handlers/support"
	"teamdesk/internal/app/outbox"
	"teamdesk/internal/domain/shared/apperr"
	domaintask "teamdesk/internal/domain/task"
)

const createTaskKey = "tasks.create"

// CreateTaskCommand opens a task owned by the caller.
type CreateTaskCommand struct {
	CallerID    string
	Title       string
	Description string
	Priority    int
	DueDate     *time.Time
	AssigneeIDs []string
	WatcherIDs  []string
	Checklist   []string
}

func (c CreateTaskCommand) Key() string { return createTaskKey }

type CreateTaskHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
}

func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*dto.Task, error) {
	if cmd.CallerID == "" {
		return nil, apperr.MissingIdentity()
	}
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}
	priority := cmd.Priority
	if priority == 0 {
		priority = domaintask.PriorityDefault
	}
	if !domaintask.ValidPriority(priority) {
		return nil, apperr.Validation("priority must be between 1 and 5")
	}

	unit, err := handlersupport.RequireUnit(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &domaintask.Task{
		ID:             domaintask.TaskID(uuid.NewString()),
		Title:          title,
		Description:    strings.TrimSpace(cmd.Description),
		Status:         domaintask.StatusOpen,
		Priority:       priority,
		CreatorID:      cmd.CallerID,
		DueDate:        cmd.DueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
		LastActivityAt: now,
	}
	for _, contactID := range dedupeIDs(cmd.AssigneeIDs) {
		task.Assignees = append(task.Assignees, domaintask.Assignee{ContactID: contactID, AddedAt: now})
	}
	for _, contactID := range dedupeIDs(cmd.WatcherIDs) {
		task.Watchers = append(task.Watchers, domaintask.Watcher{ContactID: contactID, AddedAt: now})
	}
	for _, item := range cmd.Checklist {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		task.Checklist = append(task.Checklist, domaintask.ChecklistItem{
			ID:        uuid.NewString(),
			Title:     item,
			CreatedAt: now,
		})
	}

	if err := unit.Tasks().Create(ctx, task); err != nil {
		return nil, err
	}
	if err := outbox.Record(ctx, h.Outbox, h.Encoder, domaintask.NewTaskCreated(task.ID, task.CreatorID)); err != nil {
		return nil, err
	}
	out := dto.MapTask(task)
	return &out, nil
}

func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

var _ commands.Handler[CreateTaskCommand, *dto.Task] = (*CreateTaskHandler)(nil)
