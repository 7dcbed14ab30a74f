package uow

import (
	"context"

	domaincontact "teamdesk/internal/domain/contact"
	domainconversation "teamdesk/internal/domain/conversation"
	domaintask "teamdesk/internal/domain/task"
)

// UnitOfWork coordinates repositories inside a transaction boundary. One
// unit is scoped to one request; it is never shared across workers.
type UnitOfWork interface {
	Contacts() domaincontact.Repository
	Conversations() domainconversation.Repository
	Tasks() domaintask.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
