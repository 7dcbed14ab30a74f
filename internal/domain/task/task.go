package task

import (
	"context"
	"time"

	"teamdesk/internal/domain/shared/query"
)

// TaskID identifies a task.
type TaskID string

// Task statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Priority bounds; 1 is most urgent.
const (
	PriorityHighest = 1
	PriorityDefault = 3
	PriorityLowest  = 5
)

// Assignee is a contact responsible for a task.
type Assignee struct {
	ContactID string
	AddedAt   time.Time
}

// Watcher is a contact following a task.
type Watcher struct {
	ContactID string
	AddedAt   time.Time
}

// ChecklistItem is a sub-step of a task.
type ChecklistItem struct {
	ID        string
	Title     string
	Done      bool
	CreatedAt time.Time
}

// Task is a unit of work visible to its creator, assignees and watchers.
type Task struct {
	ID             TaskID
	Title          string
	Description    string
	Status         string
	Priority       int
	CreatorID      string
	DueDate        *time.Time
	CompletedAt    *time.Time
	Assignees      []Assignee
	Watchers       []Watcher
	Checklist      []ChecklistItem
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastActivityAt time.Time
}

// VisibleTo reports whether the contact may see the task.
func (t *Task) VisibleTo(contactID string) bool {
	if t.CreatorID == contactID {
		return true
	}
	for _, a := range t.Assignees {
		if a.ContactID == contactID {
			return true
		}
	}
	for _, w := range t.Watchers {
		if w.ContactID == contactID {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ValidPriority reports whether p is within bounds.
func ValidPriority(p int) bool {
	return p >= PriorityHighest && p <= PriorityLowest
}

// UpdateFields is a partial-merge payload; nil fields are left unchanged.
type UpdateFields struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
	DueDate     *time.Time
	Assignees   []Assignee
	Watchers    []Watcher
	Checklist   []ChecklistItem
}

// Repository is the persistence port for tasks. Listing is always scoped to
// a contact: creator, assignee, or watcher.
type Repository interface {
	Create(ctx context.Context, t *Task) error
	// ByIDForContact returns the task only when the contact may see it.
	ByIDForContact(ctx context.Context, id TaskID, contactID string) (*Task, error)
	ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*Task], error)
	ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*Task, error)

	// Mutations require the contact to be the creator.
	UpdateByCreator(ctx context.Context, id TaskID, creatorID string, fields UpdateFields) (*Task, error)
	DeleteByCreator(ctx context.Context, id TaskID, creatorID string) error
	SetStatusByCreator(ctx context.Context, id TaskID, creatorID string, status string) (*Task, error)
	SetPriorityByCreator(ctx context.Context, id TaskID, creatorID string, priority int) (*Task, error)
}
