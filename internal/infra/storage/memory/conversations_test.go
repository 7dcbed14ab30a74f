package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
)

func seedConversation(t *testing.T, repo *ConversationRepository, id string, isGroup bool, contactIDs ...string) *domainconversation.Conversation {
	t.Helper()
	now := time.Now().UTC()
	conv := &domainconversation.Conversation{
		ID:             domainconversation.ConversationID(id),
		IsGroupChat:    isGroup,
		OwnerID:        contactIDs[0],
		ParticipantIDs: contactIDs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if !isGroup {
		conv.PairKey = domainconversation.PairKey(contactIDs[0], contactIDs[1])
	}
	parts := make([]*domainconversation.Participant, 0, len(contactIDs))
	for _, contactID := range contactIDs {
		parts = append(parts, &domainconversation.Participant{
			ConversationID: conv.ID,
			ContactID:      contactID,
			Role:           domainconversation.RoleMember,
			JoinedAt:       now,
		})
	}
	require.NoError(t, repo.Insert(context.Background(), conv, parts))
	return conv
}

func TestInsertDuplicatePairKeyConflicts(t *testing.T) {
	repo := NewConversationRepository()
	seedConversation(t, repo, "c1", false, "alice", "bob")

	dup := &domainconversation.Conversation{
		ID:             "c2",
		OwnerID:        "bob",
		ParticipantIDs: []string{"bob", "alice"},
		PairKey:        domainconversation.PairKey("bob", "alice"),
	}
	err := repo.Insert(context.Background(), dup, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestFindPrivateByPairKey(t *testing.T) {
	repo := NewConversationRepository()
	conv := seedConversation(t, repo, "c1", false, "alice", "bob")

	found, err := repo.FindPrivate(context.Background(), domainconversation.PairKey("bob", "alice"))
	require.NoError(t, err)
	assert.Equal(t, conv.ID, found.ID)

	_, err = repo.FindPrivate(context.Background(), domainconversation.PairKey("alice", "carol"))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddParticipantDuplicateConflicts(t *testing.T) {
	repo := NewConversationRepository()
	conv := seedConversation(t, repo, "c1", true, "alice", "bob", "carol")

	err := repo.AddParticipant(context.Background(), &domainconversation.Participant{
		ConversationID: conv.ID,
		ContactID:      "bob",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRemoveParticipantReportsAbsence(t *testing.T) {
	repo := NewConversationRepository()
	conv := seedConversation(t, repo, "c1", true, "alice", "bob", "carol")

	removed, err := repo.RemoveParticipant(context.Background(), conv.ID, "bob")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.RemoveParticipant(context.Background(), conv.ID, "bob")
	require.NoError(t, err)
	assert.False(t, removed)

	got, err := repo.ByID(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol"}, got.ParticipantIDs)
}

func TestDeleteReleasesPairKey(t *testing.T) {
	repo := NewConversationRepository()
	conv := seedConversation(t, repo, "c1", false, "alice", "bob")

	require.NoError(t, repo.Delete(context.Background(), conv.ID))

	_, err := repo.ByID(context.Background(), conv.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = repo.Participants(context.Background(), conv.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = repo.FindPrivate(context.Background(), conv.PairKey)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestByIDReturnsIsolatedCopy(t *testing.T) {
	repo := NewConversationRepository()
	conv := seedConversation(t, repo, "c1", true, "alice", "bob", "carol")

	got, err := repo.ByID(context.Background(), conv.ID)
	require.NoError(t, err)
	got.ParticipantIDs[0] = "tampered"
	got.Name = "tampered"

	again, err := repo.ByID(context.Background(), conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.ParticipantIDs[0])
	assert.Empty(t, again.Name)
}
