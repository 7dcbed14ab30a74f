package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainconversation "teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

// ConversationRepository persists conversations and participant rows in two
// collections. Both are always mutated inside the surrounding session, so the
// membership invariants hold across the pair.
type ConversationRepository struct {
	conversations *mongo.Collection
	participants  *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		conversations: db.Collection("conversations"),
		participants:  db.Collection("participants"),
	}
}

func (r *ConversationRepository) Insert(ctx context.Context, conv *domainconversation.Conversation, parts []*domainconversation.Participant) error {
	if _, err := r.conversations.InsertOne(ctx, newConversationDocument(conv)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("private conversation already exists for this pair")
		}
		return apperr.Storage("insert conversation", err)
	}
	if len(parts) == 0 {
		return nil
	}
	docs := make([]any, 0, len(parts))
	for _, p := range parts {
		docs = append(docs, newParticipantDocument(p))
	}
	if _, err := r.participants.InsertMany(ctx, docs); err != nil {
		return apperr.Storage("insert participants", err)
	}
	return nil
}

func (r *ConversationRepository) ByID(ctx context.Context, id domainconversation.ConversationID) (*domainconversation.Conversation, error) {
	var doc conversationDocument
	if err := r.conversations.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("conversation")
		}
		return nil, apperr.Storage("load conversation", err)
	}
	return doc.toEntity(), nil
}

func (r *ConversationRepository) Participants(ctx context.Context, id domainconversation.ConversationID) ([]*domainconversation.Participant, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "contact_id", Value: 1}})
	cur, err := r.participants.Find(ctx, bson.M{"conversation_id": string(id)}, opts)
	if err != nil {
		return nil, apperr.Storage("list participants", err)
	}
	defer cur.Close(ctx)
	var out []*domainconversation.Participant
	for cur.Next(ctx) {
		var doc participantDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode participant", err)
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("iterate participants", err)
	}
	return out, nil
}

func (r *ConversationRepository) Participant(ctx context.Context, id domainconversation.ConversationID, contactID string) (*domainconversation.Participant, error) {
	var doc participantDocument
	filter := bson.M{"conversation_id": string(id), "contact_id": contactID}
	if err := r.participants.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("participant")
		}
		return nil, apperr.Storage("load participant", err)
	}
	return doc.toEntity(), nil
}

func (r *ConversationRepository) FindPrivate(ctx context.Context, pairKey string) (*domainconversation.Conversation, error) {
	var doc conversationDocument
	filter := bson.M{"pair_key": pairKey, "is_group_chat": false}
	if err := r.conversations.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("conversation")
		}
		return nil, apperr.Storage("find private conversation", err)
	}
	return doc.toEntity(), nil
}

func (r *ConversationRepository) ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*domainconversation.Conversation], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDsForContact(ctx, contactID, params.IDs)
		if err != nil {
			return query.Page[*domainconversation.Conversation]{}, err
		}
		return query.IDPage(items), nil
	}

	scope := bson.M{"participant_ids": contactID}
	filter := listFilter(scope, domainconversation.Fields().SearchPaths, params)
	cur, err := r.conversations.Find(ctx, filter, listFindOptions(params))
	if err != nil {
		return query.Page[*domainconversation.Conversation]{}, apperr.Storage("list conversations", err)
	}
	items, err := decodeConversations(ctx, cur)
	if err != nil {
		return query.Page[*domainconversation.Conversation]{}, err
	}
	sortPath := params.Sort.Field.Path
	return query.NewPage(items, params.Limit, func(c *domainconversation.Conversation) any {
		return domainconversation.SortValue(c, sortPath)
	}), nil
}

func (r *ConversationRepository) ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*domainconversation.Conversation, error) {
	filter := bson.M{"_id": bson.M{"$in": ids}, "participant_ids": contactID}
	cur, err := r.conversations.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storage("load conversations", err)
	}
	return decodeConversations(ctx, cur)
}

func (r *ConversationRepository) AddParticipant(ctx context.Context, p *domainconversation.Participant) error {
	if _, err := r.participants.InsertOne(ctx, newParticipantDocument(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("participant already present")
		}
		return apperr.Storage("insert participant", err)
	}
	update := bson.M{
		"$addToSet": bson.M{"participant_ids": p.ContactID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.conversations.UpdateByID(ctx, string(p.ConversationID), update)
	if err != nil {
		return apperr.Storage("update conversation members", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("conversation")
	}
	return nil
}

func (r *ConversationRepository) RemoveParticipant(ctx context.Context, id domainconversation.ConversationID, contactID string) (bool, error) {
	filter := bson.M{"conversation_id": string(id), "contact_id": contactID}
	res, err := r.participants.DeleteOne(ctx, filter)
	if err != nil {
		return false, apperr.Storage("delete participant", err)
	}
	if res.DeletedCount == 0 {
		return false, nil
	}
	update := bson.M{
		"$pull": bson.M{"participant_ids": contactID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := r.conversations.UpdateByID(ctx, string(id), update); err != nil {
		return false, apperr.Storage("update conversation members", err)
	}
	return true, nil
}

func (r *ConversationRepository) Update(ctx context.Context, id domainconversation.ConversationID, fields domainconversation.UpdateFields) (*domainconversation.Conversation, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Name != nil {
		set["name"] = *fields.Name
	}
	if fields.AvatarFileID != nil {
		set["avatar_file_id"] = *fields.AvatarFileID
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc conversationDocument
	err := r.conversations.FindOneAndUpdate(ctx, bson.M{"_id": string(id)}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("conversation")
		}
		return nil, apperr.Storage("update conversation", err)
	}
	return doc.toEntity(), nil
}

// Delete removes participant rows first so a partial failure never leaves
// orphaned membership pointing at a live conversation.
func (r *ConversationRepository) Delete(ctx context.Context, id domainconversation.ConversationID) error {
	if _, err := r.participants.DeleteMany(ctx, bson.M{"conversation_id": string(id)}); err != nil {
		return apperr.Storage("delete participants", err)
	}
	res, err := r.conversations.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return apperr.Storage("delete conversation", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("conversation")
	}
	return nil
}

func decodeConversations(ctx context.Context, cur *mongo.Cursor) ([]*domainconversation.Conversation, error) {
	defer cur.Close(ctx)
	var out []*domainconversation.Conversation
	for cur.Next(ctx) {
		var doc conversationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode conversation", err)
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("iterate conversations", err)
	}
	return out, nil
}

type conversationDocument struct {
	ID             string    `bson:"_id"`
	Name           string    `bson:"name"`
	IsGroupChat    bool      `bson:"is_group_chat"`
	OwnerID        string    `bson:"owner_id"`
	AvatarFileID   string    `bson:"avatar_file_id,omitempty"`
	Category       string    `bson:"category,omitempty"`
	LastMessageID  string    `bson:"last_message_id,omitempty"`
	ParticipantIDs []string  `bson:"participant_ids"`
	PairKey        string    `bson:"pair_key,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func newConversationDocument(c *domainconversation.Conversation) conversationDocument {
	return conversationDocument{
		ID:             string(c.ID),
		Name:           c.Name,
		IsGroupChat:    c.IsGroupChat,
		OwnerID:        c.OwnerID,
		AvatarFileID:   c.AvatarFileID,
		Category:       c.Category,
		LastMessageID:  c.LastMessageID,
		ParticipantIDs: c.ParticipantIDs,
		PairKey:        c.PairKey,
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
}

func (d conversationDocument) toEntity() *domainconversation.Conversation {
	return &domainconversation.Conversation{
		ID:             domainconversation.ConversationID(d.ID),
		Name:           d.Name,
		IsGroupChat:    d.IsGroupChat,
		OwnerID:        d.OwnerID,
		AvatarFileID:   d.AvatarFileID,
		Category:       d.Category,
		LastMessageID:  d.LastMessageID,
		ParticipantIDs: d.ParticipantIDs,
		PairKey:        d.PairKey,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

type participantDocument struct {
	ConversationID    string     `bson:"conversation_id"`
	ContactID         string     `bson:"contact_id"`
	Role              string     `bson:"role"`
	JoinedAt          time.Time  `bson:"joined_at"`
	InvitedBy         string     `bson:"invited_by,omitempty"`
	InvitedAt         *time.Time `bson:"invited_at,omitempty"`
	Alias             string     `bson:"alias,omitempty"`
	UnreadCount       int        `bson:"unread_count"`
	LastReadAt        *time.Time `bson:"last_read_at,omitempty"`
	LastMessageReadID string     `bson:"last_message_read_id,omitempty"`
}

func newParticipantDocument(p *domainconversation.Participant) participantDocument {
	return participantDocument{
		ConversationID:    string(p.ConversationID),
		ContactID:         p.ContactID,
		Role:              string(p.Role),
		JoinedAt:          p.JoinedAt.UTC(),
		InvitedBy:         p.InvitedBy,
		InvitedAt:         p.InvitedAt,
		Alias:             p.Alias,
		UnreadCount:       p.UnreadCount,
		LastReadAt:        p.LastReadAt,
		LastMessageReadID: p.LastMessageReadID,
	}
}

func (d participantDocument) toEntity() *domainconversation.Participant {
	return &domainconversation.Participant{
		ConversationID:    domainconversation.ConversationID(d.ConversationID),
		ContactID:         d.ContactID,
		Role:              domainconversation.Role(d.Role),
		JoinedAt:          d.JoinedAt.UTC(),
		InvitedBy:         d.InvitedBy,
		InvitedAt:         d.InvitedAt,
		Alias:             d.Alias,
		UnreadCount:       d.UnreadCount,
		LastReadAt:        d.LastReadAt,
		LastMessageReadID: d.LastMessageReadID,
	}
}
