package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection("contacts")}
}

func (r *ContactRepository) Create(ctx context.Context, c *domaincontact.Contact) error {
	if _, err := r.col.InsertOne(ctx, newContactDocument(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("contact already exists")
		}
		return apperr.Storage("insert contact", err)
	}
	return nil
}

func (r *ContactRepository) ByID(ctx context.Context, id domaincontact.ContactID) (*domaincontact.Contact, error) {
	var doc contactDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("contact")
		}
		return nil, apperr.Storage("load contact", err)
	}
	return doc.toEntity(), nil
}

func (r *ContactRepository) ByIDs(ctx context.Context, ids []string) ([]*domaincontact.Contact, error) {
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperr.Storage("load contacts", err)
	}
	return decodeContacts(ctx, cur)
}

func (r *ContactRepository) List(ctx context.Context, params query.Resolved) (query.Page[*domaincontact.Contact], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDs(ctx, params.IDs)
		if err != nil {
			return query.Page[*domaincontact.Contact]{}, err
		}
		return query.IDPage(items), nil
	}

	filter := listFilter(nil, domaincontact.Fields().SearchPaths, params)
	cur, err := r.col.Find(ctx, filter, listFindOptions(params))
	if err != nil {
		return query.Page[*domaincontact.Contact]{}, apperr.Storage("list contacts", err)
	}
	items, err := decodeContacts(ctx, cur)
	if err != nil {
		return query.Page[*domaincontact.Contact]{}, err
	}
	sortPath := params.Sort.Field.Path
	return query.NewPage(items, params.Limit, func(c *domaincontact.Contact) any {
		return domaincontact.SortValue(c, sortPath)
	}), nil
}

func (r *ContactRepository) Update(ctx context.Context, id domaincontact.ContactID, fields domaincontact.UpdateFields) (*domaincontact.Contact, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	setString := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setString("username", fields.Username)
	setString("first_name", fields.FirstName)
	setString("last_name", fields.LastName)
	setString("display_name", fields.DisplayName)
	setString("email", fields.Email)
	setString("phone", fields.Phone)
	setString("status_message", fields.StatusMessage)
	setString("role", fields.Role)
	setString("department", fields.Department)
	setString("rank", fields.Rank)
	setString("position", fields.Position)
	setString("company", fields.Company)
	setString("avatar_url", fields.AvatarURL)
	setString("date_of_birth", fields.DateOfBirth)
	setString("locale", fields.Locale)
	setString("timezone", fields.Timezone)
	if fields.IsOnline != nil {
		set["is_online"] = *fields.IsOnline
		if !*fields.IsOnline {
			set["last_seen_at"] = time.Now().UTC()
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc contactDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": string(id)}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("contact")
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.Conflict("contact field already in use")
		}
		return nil, apperr.Storage("update contact", err)
	}
	return doc.toEntity(), nil
}

func (r *ContactRepository) Delete(ctx context.Context, id domaincontact.ContactID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return apperr.Storage("delete contact", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("contact")
	}
	return nil
}

func (r *ContactRepository) EmailTaken(ctx context.Context, email string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(ctx, "email", email, exclude)
}

func (r *ContactRepository) UsernameTaken(ctx context.Context, username string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(ctx, "username", username, exclude)
}

func (r *ContactRepository) PhoneTaken(ctx context.Context, phone string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(ctx, "phone", phone, exclude)
}

func (r *ContactRepository) taken(ctx context.Context, field, value string, exclude domaincontact.ContactID) (bool, error) {
	if value == "" {
		return false, nil
	}
	filter := bson.M{field: value}
	if exclude != "" {
		filter["_id"] = bson.M{"$ne": string(exclude)}
	}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.Storage("probe contact uniqueness", err)
	}
	return n > 0, nil
}

func decodeContacts(ctx context.Context, cur *mongo.Cursor) ([]*domaincontact.Contact, error) {
	defer cur.Close(ctx)
	var out []*domaincontact.Contact
	for cur.Next(ctx) {
		var doc contactDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Storage("decode contact", err)
		}
		out = append(out, doc.toEntity())
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Storage("iterate contacts", err)
	}
	return out, nil
}

type contactDocument struct {
	ID            string     `bson:"_id"`
	Username      string     `bson:"username"`
	FirstName     string     `bson:"first_name"`
	LastName      string     `bson:"last_name"`
	DisplayName   string     `bson:"display_name"`
	Email         string     `bson:"email"`
	Phone         string     `bson:"phone,omitempty"`
	IsOnline      bool       `bson:"is_online"`
	LastSeenAt    *time.Time `bson:"last_seen_at,omitempty"`
	StatusMessage string     `bson:"status_message,omitempty"`
	Role          string     `bson:"role"`
	Department    string     `bson:"department,omitempty"`
	Rank          string     `bson:"rank,omitempty"`
	Position      string     `bson:"position,omitempty"`
	Company       string     `bson:"company,omitempty"`
	AvatarURL     string     `bson:"avatar_url,omitempty"`
	DateOfBirth   string     `bson:"date_of_birth,omitempty"`
	Locale        string     `bson:"locale"`
	Timezone      string     `bson:"timezone"`
	CreatedAt     time.Time  `bson:"created_at"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func newContactDocument(c *domaincontact.Contact) contactDocument {
	return contactDocument{
		ID:            string(c.ID),
		Username:      c.Username,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		DisplayName:   c.DisplayName,
		Email:         c.Email,
		Phone:         c.Phone,
		IsOnline:      c.IsOnline,
		LastSeenAt:    c.LastSeenAt,
		StatusMessage: c.StatusMessage,
		Role:          c.Role,
		Department:    c.Department,
		Rank:          c.Rank,
		Position:      c.Position,
		Company:       c.Company,
		AvatarURL:     c.AvatarURL,
		DateOfBirth:   c.DateOfBirth,
		Locale:        c.Locale,
		Timezone:      c.Timezone,
		CreatedAt:     c.CreatedAt.UTC(),
		UpdatedAt:     c.UpdatedAt.UTC(),
	}
}

func (d contactDocument) toEntity() *domaincontact.Contact {
	return &domaincontact.Contact{
		ID:            domaincontact.ContactID(d.ID),
		Username:      d.Username,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		DisplayName:   d.DisplayName,
		Email:         d.Email,
		Phone:         d.Phone,
		IsOnline:      d.IsOnline,
		LastSeenAt:    d.LastSeenAt,
		StatusMessage: d.StatusMessage,
		Role:          d.Role,
		Department:    d.Department,
		Rank:          d.Rank,
		Position:      d.Position,
		Company:       d.Company,
		AvatarURL:     d.AvatarURL,
		DateOfBirth:   d.DateOfBirth,
		Locale:        d.Locale,
		Timezone:      d.Timezone,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}
