package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

// ConversationRepository keeps conversations and their participant rows in
// memory. The pair-key uniqueness check stands in for the sparse unique index
// the database enforces.
type ConversationRepository struct {
	mu           sync.RWMutex
	items        map[domainconversation.ConversationID]*domainconversation.Conversation
	participants map[domainconversation.ConversationID][]*domainconversation.Participant
	pairKeys     map[string]domainconversation.ConversationID
}

// NewConversationRepository builds an empty repository.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		items:        make(map[domainconversation.ConversationID]*domainconversation.Conversation),
		participants: make(map[domainconversation.ConversationID][]*domainconversation.Participant),
		pairKeys:     make(map[string]domainconversation.ConversationID),
	}
}

func (r *ConversationRepository) Insert(ctx context.Context, conv *domainconversation.Conversation, parts []*domainconversation.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv.PairKey != "" {
		if _, ok := r.pairKeys[conv.PairKey]; ok {
			return apperr.Conflict("private conversation already exists for this pair")
		}
	}
	clone := *conv
	clone.ParticipantIDs = append([]string(nil), conv.ParticipantIDs...)
	r.items[conv.ID] = &clone
	if conv.PairKey != "" {
		r.pairKeys[conv.PairKey] = conv.ID
	}
	rows := make([]*domainconversation.Participant, 0, len(parts))
	for _, p := range parts {
		pc := *p
		rows = append(rows, &pc)
	}
	r.participants[conv.ID] = rows
	return nil
}

func (r *ConversationRepository) ByID(ctx context.Context, id domainconversation.ConversationID) (*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("conversation")
	}
	return cloneConversation(conv), nil
}

func (r *ConversationRepository) Participants(ctx context.Context, id domainconversation.ConversationID) ([]*domainconversation.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.items[id]; !ok {
		return nil, apperr.NotFound("conversation")
	}
	rows := r.participants[id]
	out := make([]*domainconversation.Participant, 0, len(rows))
	for _, p := range rows {
		pc := *p
		out = append(out, &pc)
	}
	domainconversation.SortParticipants(out)
	return out, nil
}

func (r *ConversationRepository) Participant(ctx context.Context, id domainconversation.ConversationID, contactID string) (*domainconversation.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.participants[id] {
		if p.ContactID == contactID {
			pc := *p
			return &pc, nil
		}
	}
	return nil, apperr.NotFound("participant")
}

func (r *ConversationRepository) FindPrivate(ctx context.Context, pairKey string) (*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.pairKeys[pairKey]
	if !ok {
		return nil, apperr.NotFound("conversation")
	}
	return cloneConversation(r.items[id]), nil
}

func (r *ConversationRepository) ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*domainconversation.Conversation], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDsForContact(ctx, contactID, params.IDs)
		if err != nil {
			return query.Page[*domainconversation.Conversation]{}, err
		}
		return query.IDPage(items), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	spec := domainconversation.Fields()
	sortPath := params.Sort.Field.Path
	matched := make([]*domainconversation.Conversation, 0, len(r.items))
	for _, conv := range r.items {
		if !conv.HasParticipant(contactID) {
			continue
		}
		value := func(path string) string { return domainconversation.FieldValue(conv, path) }
		if !matchesSearch(params.Search, spec.SearchPaths, value) {
			continue
		}
		if !matchesFilters(params.Filters, value) {
			continue
		}
		if params.CursorValue != nil && !afterCursor(domainconversation.SortValue(conv, sortPath), params.CursorValue, params.Sort.Desc) {
			continue
		}
		matched = append(matched, cloneConversation(conv))
	}

	sort.Slice(matched, func(i, j int) bool {
		return lessInOrder(
			domainconversation.SortValue(matched[i], sortPath),
			domainconversation.SortValue(matched[j], sortPath),
			string(matched[i].ID), string(matched[j].ID),
			params.Sort.Desc,
		)
	})
	if len(matched) > params.Limit+1 {
		matched = matched[:params.Limit+1]
	}
	return query.NewPage(matched, params.Limit, func(c *domainconversation.Conversation) any {
		return domainconversation.SortValue(c, sortPath)
	}), nil
}

func (r *ConversationRepository) ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*domainconversation.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainconversation.Conversation, 0, len(ids))
	for _, id := range ids {
		conv, ok := r.items[domainconversation.ConversationID(id)]
		if !ok || !conv.HasParticipant(contactID) {
			continue
		}
		out = append(out, cloneConversation(conv))
	}
	return out, nil
}

func (r *ConversationRepository) AddParticipant(ctx context.Context, p *domainconversation.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.items[p.ConversationID]
	if !ok {
		return apperr.NotFound("conversation")
	}
	for _, existing := range r.participants[p.ConversationID] {
		if existing.ContactID == p.ContactID {
			return apperr.Conflict("participant already present")
		}
	}
	pc := *p
	r.participants[p.ConversationID] = append(r.participants[p.ConversationID], &pc)
	conv.ParticipantIDs = append(conv.ParticipantIDs, p.ContactID)
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *ConversationRepository) RemoveParticipant(ctx context.Context, id domainconversation.ConversationID, contactID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.items[id]
	if !ok {
		return false, apperr.NotFound("conversation")
	}
	rows := r.participants[id]
	for i, p := range rows {
		if p.ContactID != contactID {
			continue
		}
		r.participants[id] = append(rows[:i], rows[i+1:]...)
		for j, pid := range conv.ParticipantIDs {
			if pid == contactID {
				conv.ParticipantIDs = append(conv.ParticipantIDs[:j], conv.ParticipantIDs[j+1:]...)
				break
			}
		}
		conv.UpdatedAt = time.Now().UTC()
		return true, nil
	}
	return false, nil
}

func (r *ConversationRepository) Update(ctx context.Context, id domainconversation.ConversationID, fields domainconversation.UpdateFields) (*domainconversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("conversation")
	}
	if fields.Name != nil {
		conv.Name = *fields.Name
	}
	if fields.AvatarFileID != nil {
		conv.AvatarFileID = *fields.AvatarFileID
	}
	if fields.Category != nil {
		conv.Category = *fields.Category
	}
	conv.UpdatedAt = time.Now().UTC()
	return cloneConversation(conv), nil
}

func (r *ConversationRepository) Delete(ctx context.Context, id domainconversation.ConversationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.items[id]
	if !ok {
		return apperr.NotFound("conversation")
	}
	delete(r.participants, id)
	if conv.PairKey != "" {
		delete(r.pairKeys, conv.PairKey)
	}
	delete(r.items, id)
	return nil
}

func cloneConversation(conv *domainconversation.Conversation) *domainconversation.Conversation {
	clone := *conv
	clone.ParticipantIDs = append([]string(nil), conv.ParticipantIDs...)
	return &clone
}
