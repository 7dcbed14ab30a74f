package contacts

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamdesk/internal/app/commands"
	"teamdesk/internal/app/dto"
	"teamdesk/internal/app/middleware"
	appoutbox "teamdesk/internal/app/outbox"
	"teamdesk/internal/app/queries"
	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
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
	commands.RegisterHandler(commandBus, CreateContactCommand{}.Key(),
		&CreateContactHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, UpdateContactCommand{}.Key(),
		&UpdateContactHandler{Outbox: box, Encoder: encoder})
	commands.RegisterHandler(commandBus, DeleteContactCommand{}.Key(),
		&DeleteContactHandler{Outbox: box, Encoder: encoder})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, ListContactsQuery{}.Key(),
		&ListContactsHandler{UoWFactory: factory, Limits: query.Limits{Default: 20, Max: 100}})
	queries.RegisterHandler(queryBus, GetContactQuery{}.Key(),
		&GetContactHandler{UoWFactory: factory})

	return testEnv{
		commands: middleware.ChainCommands(commandBus,
			middleware.Transaction(factory, nil),
			middleware.OutboxFlush(box),
		),
		queries: queryBus,
		box:     box,
	}
}

func (e testEnv) register(t *testing.T, id string) dto.Contact {
	t.Helper()
	contact, err := commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), e.commands, CreateContactCommand{
			CallerID: id,
			Username: id,
			Email:    fmt.Sprintf("%s@example.com", id),
		})
	require.NoError(t, err)
	return *contact
}

func (e testEnv) list(t *testing.T, caller string, params query.ListParams) dto.ContactCollection {
	t.Helper()
	result, err := queries.Ask[ListContactsQuery, dto.ContactCollection](
		context.Background(), e.queries, ListContactsQuery{CallerID: caller, Params: params})
	require.NoError(t, err)
	return result
}

func TestCreateContact(t *testing.T) {
	env := newTestEnv(t)

	contact := env.register(t, "alice")
	assert.Equal(t, "alice", contact.ID)
	assert.Equal(t, "alice", contact.Username)
	assert.Equal(t, domaincontact.DefaultRole, contact.Role)
	assert.Equal(t, domaincontact.DefaultLocale, contact.Locale)
	assert.Equal(t, domaincontact.DefaultTimezone, contact.Timezone)

	records := env.box.Published()
	require.Len(t, records, 1)
	assert.Equal(t, "contact.created", records[0].Name)
	assert.Equal(t, "alice", records[0].Aggregate)
}

func TestCreateContactDerivesAvatarURL(t *testing.T) {
	factory := memory.NewFactory(
		memory.NewContactRepository(),
		memory.NewConversationRepository(),
		memory.NewTaskRepository(),
	)
	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, CreateContactCommand{}.Key(),
		&CreateContactHandler{AvatarBase: "https://files.example.com/avatars/"})
	bus := middleware.ChainCommands(commandBus, middleware.Transaction(factory, nil))

	contact, err := commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), bus, CreateContactCommand{
			CallerID: "alice",
			Username: "alice",
			Email:    "alice@example.com",
		})
	require.NoError(t, err)
	assert.Equal(t, "https://files.example.com/avatars/alice", contact.AvatarURL)

	// A caller-provided URL wins over the derived one.
	contact, err = commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), bus, CreateContactCommand{
			CallerID:  "bob",
			Username:  "bob",
			Email:     "bob@example.com",
			AvatarURL: "https://cdn.example.com/custom.png",
		})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/custom.png", contact.AvatarURL)
}

func TestCreateContactValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), env.commands, CreateContactCommand{CallerID: "alice", Email: "a@example.com"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), env.commands, CreateContactCommand{CallerID: "alice", Username: "alice"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateContactUniqueness(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), env.commands, CreateContactCommand{
			CallerID: "bob",
			Username: "alice",
			Email:    "bob@example.com",
		})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = commands.Dispatch[CreateContactCommand, *dto.Contact](
		context.Background(), env.commands, CreateContactCommand{
			CallerID: "bob",
			Username: "bob",
			Email:    "alice@example.com",
		})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateContactSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	status := "out for lunch"
	_, err := commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{
			CallerID:  "bob",
			ContactID: "alice",
			Fields:    domaincontact.UpdateFields{StatusMessage: &status},
		})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	updated, err := commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{
			CallerID:  "alice",
			ContactID: "alice",
			Fields:    domaincontact.UpdateFields{StatusMessage: &status},
		})
	require.NoError(t, err)
	assert.Equal(t, status, updated.StatusMessage)
}

func TestUpdateContactEmptyPayloadRejected(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{CallerID: "alice", ContactID: "alice"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateContactGoingOfflineStampsLastSeen(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	online := true
	updated, err := commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{
			CallerID:  "alice",
			ContactID: "alice",
			Fields:    domaincontact.UpdateFields{IsOnline: &online},
		})
	require.NoError(t, err)
	assert.True(t, updated.IsOnline)
	assert.Nil(t, updated.LastSeenAt)

	offline := false
	updated, err = commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{
			CallerID:  "alice",
			ContactID: "alice",
			Fields:    domaincontact.UpdateFields{IsOnline: &offline},
		})
	require.NoError(t, err)
	assert.False(t, updated.IsOnline)
	require.NotNil(t, updated.LastSeenAt)
}

func TestDeleteContactSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := commands.Dispatch[DeleteContactCommand, *DeleteContactResult](
		context.Background(), env.commands, DeleteContactCommand{CallerID: "bob", ContactID: "alice"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	result, err := commands.Dispatch[DeleteContactCommand, *DeleteContactResult](
		context.Background(), env.commands, DeleteContactCommand{CallerID: "alice", ContactID: "alice"})
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, err = queries.Ask[GetContactQuery, dto.Contact](
		context.Background(), env.queries, GetContactQuery{CallerID: "bob", ContactID: "alice"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListContactsPaginationWalk(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"dave", "alice", "carol", "bob", "erin"} {
		env.register(t, id)
	}

	var collected []string
	cursor := ""
	pages := 0
	for {
		page := env.list(t, "alice", query.ListParams{
			SortBy:    "username",
			SortOrder: "asc",
			Limit:     2,
			Cursor:    cursor,
		})
		pages++
		for _, item := range page.Items {
			collected = append(collected, item.Username)
		}
		if !page.HasMore {
			break
		}
		require.NotEmpty(t, page.NextCursor)
		cursor = page.NextCursor
	}

	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"alice", "bob", "carol", "dave", "erin"}, collected)
}

func TestListContactsSearch(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "alicia")
	env.register(t, "bob")

	page := env.list(t, "bob", query.ListParams{Search: "ALIC"})
	usernames := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		usernames = append(usernames, item.Username)
	}
	assert.ElementsMatch(t, []string{"alice", "alicia"}, usernames)
}

func TestListContactsBoolFilter(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")

	online := true
	_, err := commands.Dispatch[UpdateContactCommand, *dto.Contact](
		context.Background(), env.commands, UpdateContactCommand{
			CallerID:  "alice",
			ContactID: "alice",
			Fields:    domaincontact.UpdateFields{IsOnline: &online},
		})
	require.NoError(t, err)

	page := env.list(t, "bob", query.ListParams{Filters: map[string]string{"isOnline": "true"}})
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice", page.Items[0].Username)
}

func TestListContactsUnknownFilterIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	env.register(t, "bob")

	page := env.list(t, "alice", query.ListParams{Filters: map[string]string{"favoriteColor": "green"}})
	assert.Len(t, page.Items, 2)
}

func TestListContactsIDsPathSkipsPagination(t *testing.T) {
	env := newTestEnv(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		env.register(t, id)
	}

	page := env.list(t, "alice", query.ListParams{
		IDs:   []string{"carol", "alice", "ghost"},
		Limit: 1,
	})
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestListContactsMalformedCursor(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := queries.Ask[ListContactsQuery, dto.ContactCollection](
		context.Background(), env.queries, ListContactsQuery{
			CallerID: "alice",
			Params:   query.ListParams{Cursor: "definitely-not-a-timestamp"},
		})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidCursor, apperr.KindOf(err))
}
