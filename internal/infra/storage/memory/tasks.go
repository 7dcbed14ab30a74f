package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
	domaintask "teamdesk/internal/domain/task"
)

// TaskRepository keeps tasks in memory. Visibility scoping (creator, assignee
// or watcher) is applied on every read, matching the database predicates.
type TaskRepository struct {
	mu    sync.RWMutex
	items map[domaintask.TaskID]*domaintask.Task
}

// NewTaskRepository builds an empty repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{items: make(map[domaintask.TaskID]*domaintask.Task)}
}

func (r *TaskRepository) Create(ctx context.Context, t *domaintask.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; ok {
		return apperr.Conflict("task already exists")
	}
	r.items[t.ID] = cloneTask(t)
	return nil
}

func (r *TaskRepository) ByIDForContact(ctx context.Context, id domaintask.TaskID, contactID string) (*domaintask.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok || !t.VisibleTo(contactID) {
		return nil, apperr.NotFound("task")
	}
	return cloneTask(t), nil
}

func (r *TaskRepository) ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*domaintask.Task], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDsForContact(ctx, contactID, params.IDs)
		if err != nil {
			return query.Page[*domaintask.Task]{}, err
		}
		return query.IDPage(items), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	spec := domaintask.Fields()
	sortPath := params.Sort.Field.Path
	matched := make([]*domaintask.Task, 0, len(r.items))
	for _, t := range r.items {
		if !t.VisibleTo(contactID) {
			continue
		}
		value := func(path string) string { return domaintask.FieldValue(t, path) }
		if !matchesSearch(params.Search, spec.SearchPaths, value) {
			continue
		}
		if !matchesFilters(params.Filters, value) {
			continue
		}
		if params.CursorValue != nil && !afterCursor(domaintask.SortValue(t, sortPath), params.CursorValue, params.Sort.Desc) {
			continue
		}
		matched = append(matched, cloneTask(t))
	}

	sort.Slice(matched, func(i, j int) bool {
		return lessInOrder(
			domaintask.SortValue(matched[i], sortPath),
			domaintask.SortValue(matched[j], sortPath),
			string(matched[i].ID), string(matched[j].ID),
			params.Sort.Desc,
		)
	})
	if len(matched) > params.Limit+1 {
		matched = matched[:params.Limit+1]
	}
	return query.NewPage(matched, params.Limit, func(t *domaintask.Task) any {
		return domaintask.SortValue(t, sortPath)
	}), nil
}

func (r *TaskRepository) ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*domaintask.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaintask.Task, 0, len(ids))
	for _, id := range ids {
		t, ok := r.items[domaintask.TaskID(id)]
		if !ok || !t.VisibleTo(contactID) {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return out, nil
}

func (r *TaskRepository) UpdateByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, fields domaintask.UpdateFields) (*domaintask.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.ownedLocked(id, creatorID)
	if err != nil {
		return nil, err
	}
	applyTaskFields(t, fields)
	now := time.Now().UTC()
	t.UpdatedAt = now
	t.LastActivityAt = now
	return cloneTask(t), nil
}

func (r *TaskRepository) DeleteByCreator(ctx context.Context, id domaintask.TaskID, creatorID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.ownedLocked(id, creatorID); err != nil {
		return err
	}
	delete(r.items, id)
	return nil
}

func (r *TaskRepository) SetStatusByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, status string) (*domaintask.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.ownedLocked(id, creatorID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t.Status = status
	if status == domaintask.StatusCompleted {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	t.LastActivityAt = now
	return cloneTask(t), nil
}

func (r *TaskRepository) SetPriorityByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, priority int) (*domaintask.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, err := r.ownedLocked(id, creatorID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	t.Priority = priority
	t.UpdatedAt = now
	t.LastActivityAt = now
	return cloneTask(t), nil
}

func (r *TaskRepository) ownedLocked(id domaintask.TaskID, creatorID string) (*domaintask.Task, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("task")
	}
	if t.CreatorID != creatorID {
		if t.VisibleTo(creatorID) {
			return nil, apperr.Forbidden("only the creator may modify a task")
		}
		return nil, apperr.NotFound("task")
	}
	return t, nil
}

func applyTaskFields(t *domaintask.Task, f domaintask.UpdateFields) {
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	if f.Priority != nil {
		t.Priority = *f.Priority
	}
	if f.DueDate != nil {
		due := *f.DueDate
		t.DueDate = &due
	}
	if f.Assignees != nil {
		t.Assignees = append([]domaintask.Assignee(nil), f.Assignees...)
	}
	if f.Watchers != nil {
		t.Watchers = append([]domaintask.Watcher(nil), f.Watchers...)
	}
	if f.Checklist != nil {
		t.Checklist = append([]domaintask.ChecklistItem(nil), f.Checklist...)
	}
}

func cloneTask(t *domaintask.Task) *domaintask.Task {
	clone := *t
	clone.Assignees = append([]domaintask.Assignee(nil), t.Assignees...)
	clone.Watchers = append([]domaintask.Watcher(nil), t.Watchers...)
	clone.Checklist = append([]domaintask.ChecklistItem(nil), t.Checklist...)
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		clone.CompletedAt = &done
	}
	return &clone
}
