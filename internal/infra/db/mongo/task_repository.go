package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
	domaintask "teamdesk/internal/domain/task"
)

type TaskRepository struct {
	col *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{col: db.Collection("tasks")}
}

// visibleScope limits reads to tasks the contact created, is assigned to, or
// watches. The predicate runs server-side so paging stays correct even for
// contacts involved in many tasks.
func visibleScope(contactID string) bson.M {
	return bson.M{"$or": []bson.M{
		{"creator_id": contactID},
		{"assignees.contact_id": contactID},
		{"watchers.contact_id": contactID},
	}}
}

func (r *TaskRepository) Create(ctx context.Context, t *domaintask.Task) error {
	if _, err := r.col.InsertOne(ctx, newTaskDocument(t)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("task already exists")
		}
		return apperr.Storage("insert task", err)
	}
	return nil
}

func (r *TaskRepository) ByIDForContact(ctx context.Context, id domaintask.TaskID, contactID string) (*domaintask.Task, error) {
	filter := bson.M{"$and": []bson.M{{"_id": string(id)}, visibleScope(contactID)}}
	var doc taskDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("task")
		}
		return nil, apperr.Storage("load task", err)
	}
	return doc.toEntity(), nil
}

func (r *TaskRepository) ListForContact(ctx context.Context, contactID string, params query.Resolved) (query.Page[*domaintask.Task], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDsForContact(ctx, contactID, params.IDs)
		if err != nil {
			return query.Page[*domaintask.Task]{}, err
		}
		return query.IDPage(items), nil
	}

	filter := listFilter(visibleScope(contactID), domaintask.Fields().SearchPaths, params)
	cur, err := r.col.Find(ctx, filter, listFindOptions(params))
	if err != nil {
		return query.Page[*domaintask.Task]{}, apperr.Storage("list tasks", err)
	}
	items, err := decodeTasks(ctx, cur)
	if err != nil {
		return query.Page[*domaintask.Task]{}, err
	}
	sortPath := params.Sort.Field.Path
	return query.NewPage(items, params.Limit, func(t *domaintask.Task) any {
		return domaintask.SortValue(t, sortPath)
	}), nil
}

func (r *TaskRepository) ByIDsForContact(ctx context.Context, contactID string, ids []string) ([]*domaintask.Task, error) {
	filter := bson.M{"$and": []bson.M{{"_id": bson.M{"$in": ids}}, visibleScope(contactID)}}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Storage("load tasks", err)
	}
	return decodeTasks(ctx, cur)
}

func (r *TaskRepository) UpdateByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, fields domaintask.UpdateFields) (*domaintask.Task, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now, "last_activity_at": now}
	if fields.Title != nil {
		set["title"] = *fields.Title
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Status != nil {
		set["status"] = *fields.Status
	}
	if fields.Priority != nil {
		set["priority"] = *fields.Priority
	}
	if fields.DueDate != nil {
		set["due_date"] = fields.DueDate.UTC()
	}
	if fields.Assignees != nil {
		set["assignees"] = newAssigneeDocuments(fields.Assignees)
	}
	if fields.Watchers != nil {
		set["watchers"] = newWatcherDocuments(fields.Watchers)
	}
	if fields.Checklist != nil {
		set["checklist"] = newChecklistDocuments(fields.Checklist)
	}
	return r.updateOwned(ctx, id, creatorID, bson.M{"$set": set})
}

func (r *TaskRepository) DeleteByCreator(ctx context.Context, id domaintask.TaskID, creatorID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id), "creator_id": creatorID})
	if err != nil {
		return apperr.Storage("delete task", err)
	}
	if res.DeletedCount == 0 {
		return r.ownershipError(ctx, id, creatorID)
	}
	return nil
}

func (r *TaskRepository) SetStatusByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, status string) (*domaintask.Task, error) {
	now := time.Now().UTC()
	set := bson.M{"status": status, "updated_at": now, "last_activity_at": now}
	update := bson.M{"$set": set}
	if status == domaintask.StatusCompleted {
		set["completed_at"] = now
	} else {
		update["$unset"] = bson.M{"completed_at": ""}
	}
	return r.updateOwned(ctx, id, creatorID, update)
}

func (r *TaskRepository) SetPriorityByCreator(ctx context.Context, id domaintask.TaskID, creatorID string, priority int) (*domaintask.Task, error) {
	now := time.Now().UTC()
	set := bson.M{"priority": priority, "updated_at": now, "last_activity_at": now}
	return r.updateOwned(ctx, id, creatorID, bson.M{"$set": set})
}

func (r *TaskRepository) updateOwned(ctx context.Context, id domaintask.TaskID, creatorID string, update bson.M) (*domaintask.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": string(id), "creator_id": creatorID}
	var doc taskDocument
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, r.ownershipError(ctx, id, creatorID)
		}
		return nil, apperr.Storage("update task", err)
	}
	return doc.toEntity(), nil
}

// ownershipError distinguishes a task the caller can see but not modify from
// one that does not exist for them at all.
func (r *TaskRepository) ownershipError(ctx context.Context, id domaintask.TaskID, contactID string) error {
	filter := bson.M{"$and": []bson.M{{"_id": string(id)}, visibleScope(contactID)}}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return apperr.Storage("load task", err)
	}
	if n > 0 {
		return apperr.Forbidden("only the creator may modify a task")
	}
	return apperr.NotFound("task")
}

func decodeTasks(ctx context.Context, cur *mongo.Cursor) ([]*domaintask.Task, error) {
	defer cur.Close(ctx)
	var out []*domaintask.Task
	for cur.Next(ctx) {
		var doc taskDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode task", err)
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("iterate tasks", err)
	}
	return out, nil
}

type taskDocument struct {
	ID             string              `bson:"_id"`
	Title          string              `bson:"title"`
	Description    string              `bson:"description,omitempty"`
	Status         string              `bson:"status"`
	Priority       int                 `bson:"priority"`
	CreatorID      string              `bson:"creator_id"`
	DueDate        *time.Time          `bson:"due_date,omitempty"`
	CompletedAt    *time.Time          `bson:"completed_at,omitempty"`
	Assignees      []assigneeDocument  `bson:"assignees"`
	Watchers       []watcherDocument   `bson:"watchers"`
	Checklist      []checklistDocument `bson:"checklist"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
	LastActivityAt time.Time           `bson:"last_activity_at"`
}

type assigneeDocument struct {
	ContactID string    `bson:"contact_id"`
	AddedAt   time.Time `bson:"added_at"`
}

type watcherDocument struct {
	ContactID string    `bson:"contact_id"`
	AddedAt   time.Time `bson:"added_at"`
}

type checklistDocument struct {
	ID        string    `bson:"id"`
	Title     string    `bson:"title"`
	Done      bool      `bson:"done"`
	CreatedAt time.Time `bson:"created_at"`
}

func newTaskDocument(t *domaintask.Task) taskDocument {
	return taskDocument{
		ID:             string(t.ID),
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		CreatorID:      t.CreatorID,
		DueDate:        t.DueDate,
		CompletedAt:    t.CompletedAt,
		Assignees:      newAssigneeDocuments(t.Assignees),
		Watchers:       newWatcherDocuments(t.Watchers),
		Checklist:      newChecklistDocuments(t.Checklist),
		CreatedAt:      t.CreatedAt.UTC(),
		UpdatedAt:      t.UpdatedAt.UTC(),
		LastActivityAt: t.LastActivityAt.UTC(),
	}
}

func newAssigneeDocuments(in []domaintask.Assignee) []assigneeDocument {
	out := make([]assigneeDocument, 0, len(in))
	for _, a := range in {
		out = append(out, assigneeDocument{ContactID: a.ContactID, AddedAt: a.AddedAt.UTC()})
	}
	return out
}

func newWatcherDocuments(in []domaintask.Watcher) []watcherDocument {
	out := make([]watcherDocument, 0, len(in))
	for _, w := range in {
		out = append(out, watcherDocument{ContactID: w.ContactID, AddedAt: w.AddedAt.UTC()})
	}
	return out
}

func newChecklistDocuments(in []domaintask.ChecklistItem) []checklistDocument {
	out := make([]checklistDocument, 0, len(in))
	for _, c := range in {
		out = append(out, checklistDocument{ID: c.ID, Title: c.Title, Done: c.Done, CreatedAt: c.CreatedAt.UTC()})
	}
	return out
}

func (d taskDocument) toEntity() *domaintask.Task {
	t := &domaintask.Task{
		ID:             domaintask.TaskID(d.ID),
		Title:          d.Title,
		Description:    d.Description,
		Status:         d.Status,
		Priority:       d.Priority,
		CreatorID:      d.CreatorID,
		DueDate:        d.DueDate,
		CompletedAt:    d.CompletedAt,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		LastActivityAt: d.LastActivityAt.UTC(),
	}
	for _, a := range d.Assignees {
		t.Assignees = append(t.Assignees, domaintask.Assignee{ContactID: a.ContactID, AddedAt: a.AddedAt.UTC()})
	}
	for _, w := range d.Watchers {
		t.Watchers = append(t.Watchers, domaintask.Watcher{ContactID: w.ContactID, AddedAt: w.AddedAt.UTC()})
	}
	for _, c := range d.Checklist {
		t.Checklist = append(t.Checklist, domaintask.ChecklistItem{ID: c.ID, Title: c.Title, Done: c.Done, CreatedAt: c.CreatedAt.UTC()})
	}
	return t
}
