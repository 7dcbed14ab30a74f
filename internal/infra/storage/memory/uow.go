package memory

import (
	"context"

	"teamdesk/internal/app/uow"
	domaincontact "teamdesk/internal/domain/contact"
	domainconversation "teamdesk/internal/domain/conversation"
	domaintask "teamdesk/internal/domain/task"
)

// Factory hands out units of work over shared in-memory repositories. The
// repositories apply writes immediately, so commit and rollback are no-ops;
// the factory exists so application code runs identically against either
// storage backend.
type Factory struct {
	contacts      *ContactRepository
	conversations *ConversationRepository
	tasks         *TaskRepository
}

// NewFactory builds a factory around the given repositories.
func NewFactory(contacts *ContactRepository, conversations *ConversationRepository, tasks *TaskRepository) *Factory {
	return &Factory{contacts: contacts, conversations: conversations, tasks: tasks}
}

func (f *Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	return &unit{factory: f}, nil
}

type unit struct {
	factory *Factory
}

func (u *unit) Contacts() domaincontact.Repository           { return u.factory.contacts }
func (u *unit) Conversations() domainconversation.Repository { return u.factory.conversations }
func (u *unit) Tasks() domaintask.Repository                 { return u.factory.tasks }
func (u *unit) Commit(ctx context.Context) error             { return nil }
func (u *unit) Rollback(ctx context.Context) error           { return nil }
