package dto

import (
	"time"

	"teamdesk/internal/domain/shared/query"
	domaintask "teamdesk/internal/domain/task"
)

// Task is the wire representation of a task.
type Task struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	Status         string          `json:"status"`
	Priority       int             `json:"priority"`
	CreatorID      string          `json:"creator_id"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	CompletedAt    *time.Time      `json:"completed_at,omitempty"`
	Assignees      []TaskAssignee  `json:"assignees"`
	Watchers       []TaskWatcher   `json:"watchers"`
	Checklist      []ChecklistItem `json:"checklist"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}

type TaskAssignee struct {
	ContactID string    `json:"contact_id"`
	AddedAt   time.Time `json:"added_at"`
}

type TaskWatcher struct {
	ContactID string    `json:"contact_id"`
	AddedAt   time.Time `json:"added_at"`
}

type ChecklistItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

func MapTask(t *domaintask.Task) Task {
	out := Task{
		ID:             string(t.ID),
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		CreatorID:      t.CreatorID,
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		Assignees:      make([]TaskAssignee, 0, len(t.Assignees)),
		Watchers:       make([]TaskWatcher, 0, len(t.Watchers)),
		Checklist:      make([]ChecklistItem, 0, len(t.Checklist)),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		LastActivityAt: t.LastActivityAt,
	}
	for _, a := range t.Assignees {
		out.Assignees = append(out.Assignees, TaskAssignee{ContactID: a.ContactID, AddedAt: a.AddedAt})
	}
	for _, w := range t.Watchers {
		out.Watchers = append(out.Watchers, TaskWatcher{ContactID: w.ContactID, AddedAt: w.AddedAt})
	}
	for _, c := range t.Checklist {
		out.Checklist = append(out.Checklist, ChecklistItem{ID: c.ID, Title: c.Title, Done: c.Done, CreatedAt: c.CreatedAt})
	}
	return out
}

// TaskCollection is one page of tasks. Total is the item count of this
// page, not of the whole result set.
type TaskCollection struct {
	Items      []Task `json:"items"`
	Total      int    `json:"total"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor,omitempty"`
}

func MapTaskPage(page query.Page[*domaintask.Task]) TaskCollection {
	items := make([]Task, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, MapTask(t))
	}
	return TaskCollection{Items: items, Total: page.Total, HasMore: page.HasMore, NextCursor: page.NextCursor}
}
