package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teamdesk/internal/app/uow"
	domaincontact "teamdesk/internal/domain/contact"
	domainconversation "teamdesk/internal/domain/conversation"
	domaintask "teamdesk/internal/domain/task"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	ContactsRepo      domaincontact.Repository
	ConversationsRepo domainconversation.Repository
	TasksRepo         domaintask.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:            f.DB,
		session:       session,
		contacts:      f.ContactsRepo,
		conversations: f.ConversationsRepo,
		tasks:         f.TasksRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	contacts      domaincontact.Repository
	conversations domainconversation.Repository
	tasks         domaintask.Repository
}

func (u *Unit) Contacts() domaincontact.Repository {
	return u.contacts
}

func (u *Unit) Conversations() domainconversation.Repository {
	return u.conversations
}

func (u *Unit) Tasks() domaintask.Repository {
	return u.tasks
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for
// downstream repositories.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}
