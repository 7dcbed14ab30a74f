package tasks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	"teamdesk/internal/app/middleware"
	appoutbox "teamdesk/internal/app/outbox"
	"teamdesk/internal/app/queries"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
	domaintask "teamdesk/internal/domain/task"
	"teamdesk/internal/infra/storage/memory"
)

type testEnv struct {
	commands commands.Bus
	queries  queries.Bus
	box      *memory.Outbox
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	factory := memory.NewFactory(
		memory.NewContactRepository(),
		memory.NewConversationRepository(),
		memory.NewTaskRepository(),
	)
	box := memory.NewOutbox()
	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, CreateTaskCommand{}.Key(),
		&CreateTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, UpdateTaskCommand{}.Key(),
		&UpdateTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, DeleteTaskCommand{}.Key(),
		&DeleteTaskHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, SetTaskStatusCommand{}.Key(),
		&SetTaskStatusHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, SetTaskPriorityCommand{}.Key(),
		&SetTaskPriorityHandler{Outbox: box, Encoder: encoder})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, ListTasksQuery{}.Key(),
		&ListTasksHandler{UoWFactory: factory, Limits: query.Limits{Default: 20, Max: 100}})
	queries.RegisterHandler(queryBus, GetTaskQuery{}.Key(),
		&GetTaskHandler{UoWFactory: factory})

	return testEnv{
		commands: middleware.ChainCommands(commandBus,
			middleware.Transaction(factory, nil),
			middleware.OutboxFlush(box),
		),
		queries: queryBus,
		box:     box,
	}
}

func (e testEnv) createTask(t *testing.T, cmd CreateTaskCommand) dto.Task {
	t.Helper()
	task, err := commands.Dispatch[CreateTaskCommand, *dto.Task](context.Background(), e.commands, cmd)
	require.NoError(t, err)
	return *task
}

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t)

	task := env.createTask(t, CreateTaskCommand{
		CallerID:    "alice",
		Title:       "  write runbook  ",
		AssigneeIDs: []string{"bob", "bob", ""},
		WatcherIDs:  []string{"carol"},
		Checklist:   []string{"outline", " ", "review"},
	})

	assert.Equal(t, "write runbook", task.Title)
	assert.Equal(t, domaintask.StatusOpen, task.Status)
	assert.Equal(t, domaintask.PriorityDefault, task.Priority)
	assert.Equal(t, "alice", task.CreatorID)
	require.Len(t, task.Assignees, 1)
	assert.Equal(t, "bob", task.Assignees[0].ContactID)
	require.Len(t, task.Checklist, 2)
	assert.NotEmpty(t, task.Checklist[0].ID)

	records := env.box.Published()
	require.Len(t, records, 1)
	assert.Equal(t, "task.created", records[0].Name)
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := commands.Dispatch[CreateTaskCommand, *dto.Task](
		context.Background(), env.commands, CreateTaskCommand{CallerID: "alice", Title: "   "})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = commands.Dispatch[CreateTaskCommand, *dto.Task](
		context.Background(), env.commands, CreateTaskCommand{CallerID: "alice", Title: "x", Priority: 9})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTaskVisibility(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{
		CallerID:    "alice",
		Title:       "triage",
		AssigneeIDs: []string{"bob"},
		WatcherIDs:  []string{"carol"},
	})

	for _, viewer := range []string{"alice", "bob", "carol"} {
		got, err := queries.Ask[GetTaskQuery, dto.Task](
			context.Background(), env.queries, GetTaskQuery{CallerID: viewer, TaskID: task.ID})
		require.NoError(t, err, "viewer %s", viewer)
		assert.Equal(t, task.ID, got.ID)
	}

	_, err := queries.Ask[GetTaskQuery, dto.Task](
		context.Background(), env.queries, GetTaskQuery{CallerID: "mallory", TaskID: task.ID})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateTaskCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{
		CallerID:    "alice",
		Title:       "triage",
		AssigneeIDs: []string{"bob"},
	})

	title := "triage incidents"
	updated, err := commands.Dispatch[UpdateTaskCommand, *dto.Task](
		context.Background(), env.commands, UpdateTaskCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Fields:   domaintask.UpdateFields{Title: &title},
		})
	require.NoError(t, err)
	assert.Equal(t, "triage incidents", updated.Title)

	// An assignee can see the task but cannot modify it.
	_, err = commands.Dispatch[UpdateTaskCommand, *dto.Task](
		context.Background(), env.commands, UpdateTaskCommand{
			CallerID: "bob",
			TaskID:   task.ID,
			Fields:   domaintask.UpdateFields{Title: &title},
		})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// An outsider cannot even learn the task exists.
	_, err = commands.Dispatch[UpdateTaskCommand, *dto.Task](
		context.Background(), env.commands, UpdateTaskCommand{
			CallerID: "mallory",
			TaskID:   task.ID,
			Fields:   domaintask.UpdateFields{Title: &title},
		})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetStatusStampsCompletedAt(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "ship it"})

	done, err := commands.Dispatch[SetTaskStatusCommand, *dto.Task](
		context.Background(), env.commands, SetTaskStatusCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Status:   domaintask.StatusCompleted,
		})
	require.NoError(t, err)
	assert.Equal(t, domaintask.StatusCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)

	reopened, err := commands.Dispatch[SetTaskStatusCommand, *dto.Task](
		context.Background(), env.commands, SetTaskStatusCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Status:   domaintask.StatusOpen,
		})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
}

func TestSetStatusRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "ship it"})

	_, err := commands.Dispatch[SetTaskStatusCommand, *dto.Task](
		context.Background(), env.commands, SetTaskStatusCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Status:   "paused",
		})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestSetPriority(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "ship it"})

	updated, err := commands.Dispatch[SetTaskPriorityCommand, *dto.Task](
		context.Background(), env.commands, SetTaskPriorityCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Priority: domaintask.PriorityHighest,
		})
	require.NoError(t, err)
	assert.Equal(t, domaintask.PriorityHighest, updated.Priority)

	_, err = commands.Dispatch[SetTaskPriorityCommand, *dto.Task](
		context.Background(), env.commands, SetTaskPriorityCommand{
			CallerID: "alice",
			TaskID:   task.ID,
			Priority: 0,
		})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeleteTaskCreatorOnly(t *testing.T) {
	env := newTestEnv(t)
	task := env.createTask(t, CreateTaskCommand{
		CallerID:    "alice",
		Title:       "ship it",
		AssigneeIDs: []string{"bob"},
	})

	_, err := commands.Dispatch[DeleteTaskCommand, *DeleteTaskResult](
		context.Background(), env.commands, DeleteTaskCommand{CallerID: "bob", TaskID: task.ID})
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	result, err := commands.Dispatch[DeleteTaskCommand, *DeleteTaskResult](
		context.Background(), env.commands, DeleteTaskCommand{CallerID: "alice", TaskID: task.ID})
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, err = queries.Ask[GetTaskQuery, dto.Task](
		context.Background(), env.queries, GetTaskQuery{CallerID: "alice", TaskID: task.ID})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListTasksScopedToViewer(t *testing.T) {
	env := newTestEnv(t)
	env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "mine"})
	env.createTask(t, CreateTaskCommand{CallerID: "bob", Title: "assigned", AssigneeIDs: []string{"alice"}})
	env.createTask(t, CreateTaskCommand{CallerID: "bob", Title: "watched", WatcherIDs: []string{"alice"}})
	env.createTask(t, CreateTaskCommand{CallerID: "bob", Title: "hidden"})

	page, err := queries.Ask[ListTasksQuery, dto.TaskCollection](
		context.Background(), env.queries, ListTasksQuery{CallerID: "alice", Params: query.ListParams{}})
	require.NoError(t, err)

	titles := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		titles = append(titles, item.Title)
	}
	assert.ElementsMatch(t, []string{"mine", "assigned", "watched"}, titles)
}

func TestListTasksPriorityFilter(t *testing.T) {
	env := newTestEnv(t)
	env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "urgent", Priority: 1})
	env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "routine", Priority: 4})

	page, err := queries.Ask[ListTasksQuery, dto.TaskCollection](
		context.Background(), env.queries, ListTasksQuery{
			CallerID: "alice",
			Params:   query.ListParams{Filters: map[string]string{"priority": "1"}},
		})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "urgent", page.Items[0].Title)
}

func TestListTasksStatusFilterAndSort(t *testing.T) {
	env := newTestEnv(t)
	first := env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "a", Priority: 5})
	env.createTask(t, CreateTaskCommand{CallerID: "alice", Title: "b", Priority: 2})

	_, err := commands.Dispatch[SetTaskStatusCommand, *dto.Task](
		context.Background(), env.commands, SetTaskStatusCommand{
			CallerID: "alice",
			TaskID:   first.ID,
			Status:   domaintask.StatusCancelled,
		})
	require.NoError(t, err)

	page, err := queries.Ask[ListTasksQuery, dto.TaskCollection](
		context.Background(), env.queries, ListTasksQuery{
			CallerID: "alice",
			Params:   query.ListParams{Filters: map[string]string{"status": domaintask.StatusOpen}},
		})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b", page.Items[0].Title)

	sorted, err := queries.Ask[ListTasksQuery, dto.TaskCollection](
		context.Background(), env.queries, ListTasksQuery{
			CallerID: "alice",
			Params:   query.ListParams{SortBy: "priority", SortOrder: "asc"},
		})
	require.NoError(t, err)
	require.Len(t, sorted.Items, 2)
	assert.Equal(t, "b", sorted.Items[0].Title)
	assert.Equal(t, "a", sorted.Items[1].Title)
}
