package task

import "teamdesk/internal/domain/shared/events"

type TaskCreated struct {
	events.BaseEvent
	TaskID    string `json:"task_id"`
	CreatorID string `json:"creator_id"`
}

type TaskUpdated struct {
	events.BaseEvent
	TaskID string `json:"task_id"`
}

type TaskDeleted struct {
	events.BaseEvent
	TaskID string `json:"task_id"`
}

func NewTaskCreated(id TaskID, creatorID string) TaskCreated {
	return TaskCreated{BaseEvent: events.NewBase("task.created", string(id)), TaskID: string(id), CreatorID: creatorID}
}

func NewTaskUpdated(id TaskID) TaskUpdated {
	return TaskUpdated{BaseEvent: events.NewBase("task.updated", string(id)), TaskID: string(id)}
}

func NewTaskDeleted(id TaskID) TaskDeleted {
	return TaskDeleted{BaseEvent: events.NewBase("task.deleted", string(id)), TaskID: string(id)}
}
