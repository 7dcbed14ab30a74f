package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamdesk/internal/app/commands"
	contactsapp "teamdesk/internal/app/handlers/contacts"
	conversationsapp "teamdesk/internal/app/handlers/conversations"
	tasksapp "teamdesk/internal/app/handlers/tasks"
	"teamdesk/internal/app/middleware"
	appoutbox "teamdesk/internal/app/outbox"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/app/uow"
	"teamdesk/internal/domain/shared/query"
	"teamdesk/internal/infra/broker/kafka"
	"teamdesk/internal/infra/config"
	mongodb "teamdesk/internal/infra/db/mongo"
	ginserver "teamdesk/internal/infra/http/gin"
	"teamdesk/internal/infra/obs"
	infraoutbox "teamdesk/internal/infra/outbox"
	"teamdesk/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, cleanup, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, func(), error) {
	cleanup := func() {}

	var (
		factory uow.UoWFactory
		box     appoutbox.Outbox
		worker  *infraoutbox.Worker
		ready   = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "memory":
		factory = memory.NewFactory(
			memory.NewContactRepository(),
			memory.NewConversationRepository(),
			memory.NewTaskRepository(),
		)
		box = memory.NewOutbox()

	default:
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, cleanup, err
		}
		if err := mongodb.EnsureIndexes(ctx, client.DB); err != nil {
			return application{}, cleanup, err
		}
		factory = mongodb.Factory{
			DB:                client.DB,
			ContactsRepo:      mongodb.NewContactRepository(client.DB),
			ConversationsRepo: mongodb.NewConversationRepository(client.DB),
			TasksRepo:         mongodb.NewTaskRepository(client.DB),
		}
		store := infraoutbox.NewStore(client.DB)
		box = store

		producer, err := kafka.NewProducer(cfg.KafkaBrokers, "teamdesk", nil)
		if err != nil {
			return application{}, cleanup, err
		}
		worker = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Source:      "app://teamdesk",
			Backoff:     cfg.RetryBackoff,
		}
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		cleanup = func() {
			_ = producer.Close()
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(closeCtx)
		}
	}

	limits := query.Limits{Default: cfg.PageLimitDefault, Max: cfg.PageLimitMax}
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, contactsapp.CreateContactCommand{}.Key(),
		&contactsapp.CreateContactHandler{Outbox: box, Encoder: encoder, AvatarBase: cfg.AvatarBaseURL})
	commands.RegisterHandler(commandBus, contactsapp.UpdateContactCommand{}.Key(),
		&contactsapp.UpdateContactHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, contactsapp.DeleteContactCommand{}.Key(),
		&contactsapp.DeleteContactHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, conversationsapp.CreateConversationCommand{}.Key(),
		&conversationsapp.CreateConversationHandler{Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, conversationsapp.UpdateConversationCommand{}.Key(),
		&conversationsapp.UpdateConversationHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, conversationsapp.DeleteConversationCommand{}.Key(),
		&conversationsapp.DeleteConversationHandler{Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, conversationsapp.AddParticipantsCommand{}.Key(),
		&conversationsapp.AddParticipantsHandler{Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, conversationsapp.RemoveParticipantsCommand{}.Key(),
		&conversationsapp.RemoveParticipantsHandler{Outbox: box, Encoder: encoder, Logger: logger})
	commands.RegisterHandler(commandBus, tasksapp.CreateTaskCommand{}.Key(),
		&tasksapp.CreateTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, tasksapp.UpdateTaskCommand{}.Key(),
		&tasksapp.UpdateTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, tasksapp.DeleteTaskCommand{}.Key(),
		&tasksapp.DeleteTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, tasksapp.SetTaskStatusCommand{}.Key(),
		&tasksapp.SetTaskStatusHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, tasksapp.SetTaskPriorityCommand{}.Key(),
		&tasksapp.SetTaskPriorityHandler{Outbox: box, Encoder: encoder})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, contactsapp.ListContactsQuery{}.Key(),
		&contactsapp.ListContactsHandler{UoWFactory: factory, Limits: limits, Logger: logger})
	queries.RegisterHandler(queryBus, contactsapp.GetContactQuery{}.Key(),
		&contactsapp.GetContactHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, conversationsapp.ListConversationsQuery{}.Key(),
		&conversationsapp.ListConversationsHandler{UoWFactory: factory, Limits: limits})
	queries.RegisterHandler(queryBus, conversationsapp.GetConversationQuery{}.Key(),
		&conversationsapp.GetConversationHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, tasksapp.ListTasksQuery{}.Key(),
		&tasksapp.ListTasksHandler{UoWFactory: factory, Limits: limits})
	queries.RegisterHandler(queryBus, tasksapp.GetTaskQuery{}.Key(),
		&tasksapp.GetTaskHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
	)

	return application{
		handlers: ginserver.Handlers{
			Contacts: ginserver.ContactHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Conversations: ginserver.ConversationHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Tasks: ginserver.TaskHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
		},
		worker: worker,
		ready:  ready,
	}, cleanup, nil
}
