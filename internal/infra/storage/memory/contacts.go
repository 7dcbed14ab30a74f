package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domaincontact "teamdesk/internal/domain/contact"
	"teamdesk/internal/domain/shared/apperr"
	"teamdesk/internal/domain/shared/query"
)

// ContactRepository keeps contacts in memory. It implements the same listing
// semantics as the database-backed repository so handler tests exercise the
// real pagination contract.
type ContactRepository struct {
	mu    sync.RWMutex
	items map[domaincontact.ContactID]*domaincontact.Contact
}

// NewContactRepository builds an empty repository.
func NewContactRepository() *ContactRepository {
	return &ContactRepository{items: make(map[domaincontact.ContactID]*domaincontact.Contact)}
}

func (r *ContactRepository) Create(ctx context.Context, c *domaincontact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; ok {
		return apperr.Conflict("contact already exists")
	}
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *ContactRepository) ByID(ctx context.Context, id domaincontact.ContactID) (*domaincontact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("contact")
	}
	clone := *c
	return &clone, nil
}

func (r *ContactRepository) ByIDs(ctx context.Context, ids []string) ([]*domaincontact.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincontact.Contact, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.items[domaincontact.ContactID(id)]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *ContactRepository) List(ctx context.Context, params query.Resolved) (query.Page[*domaincontact.Contact], error) {
	if len(params.IDs) > 0 {
		items, err := r.ByIDs(ctx, params.IDs)
		if err != nil {
			return query.Page[*domaincontact.Contact]{}, err
		}
		return query.IDPage(items), nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	spec := domaincontact.Fields()
	sortPath := params.Sort.Field.Path
	matched := make([]*domaincontact.Contact, 0, len(r.items))
	for _, c := range r.items {
		value := func(path string) string { return domaincontact.FieldValue(c, path) }
		if !matchesSearch(params.Search, spec.SearchPaths, value) {
			continue
		}
		if !matchesFilters(params.Filters, value) {
			continue
		}
		if params.CursorValue != nil && !afterCursor(domaincontact.SortValue(c, sortPath), params.CursorValue, params.Sort.Desc) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}

	sort.Slice(matched, func(i, j int) bool {
		return lessInOrder(
			domaincontact.SortValue(matched[i], sortPath),
			domaincontact.SortValue(matched[j], sortPath),
			string(matched[i].ID), string(matched[j].ID),
			params.Sort.Desc,
		)
	})
	if len(matched) > params.Limit+1 {
		matched = matched[:params.Limit+1]
	}
	return query.NewPage(matched, params.Limit, func(c *domaincontact.Contact) any {
		return domaincontact.SortValue(c, sortPath)
	}), nil
}

func (r *ContactRepository) Update(ctx context.Context, id domaincontact.ContactID, fields domaincontact.UpdateFields) (*domaincontact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, apperr.NotFound("contact")
	}
	applyContactFields(c, fields)
	c.UpdatedAt = time.Now().UTC()
	clone := *c
	return &clone, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id domaincontact.ContactID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperr.NotFound("contact")
	}
	delete(r.items, id)
	return nil
}

func (r *ContactRepository) EmailTaken(ctx context.Context, email string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(func(c *domaincontact.Contact) string { return c.Email }, email, exclude), nil
}

func (r *ContactRepository) UsernameTaken(ctx context.Context, username string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(func(c *domaincontact.Contact) string { return c.Username }, username, exclude), nil
}

func (r *ContactRepository) PhoneTaken(ctx context.Context, phone string, exclude domaincontact.ContactID) (bool, error) {
	return r.taken(func(c *domaincontact.Contact) string { return c.Phone }, phone, exclude), nil
}

func (r *ContactRepository) taken(value func(*domaincontact.Contact) string, candidate string, exclude domaincontact.ContactID) bool {
	if candidate == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, c := range r.items {
		if id != exclude && value(c) == candidate {
			return true
		}
	}
	return false
}

func applyContactFields(c *domaincontact.Contact, f domaincontact.UpdateFields) {
	if f.Username != nil {
		c.Username = *f.Username
	}
	if f.FirstName != nil {
		c.FirstName = *f.FirstName
	}
	if f.LastName != nil {
		c.LastName = *f.LastName
	}
	if f.DisplayName != nil {
		c.DisplayName = *f.DisplayName
	}
	if f.Email != nil {
		c.Email = *f.Email
	}
	if f.Phone != nil {
		c.Phone = *f.Phone
	}
	if f.IsOnline != nil {
		c.IsOnline = *f.IsOnline
		if !c.IsOnline {
			now := time.Now().UTC()
			c.LastSeenAt = &now
		}
	}
	if f.StatusMessage != nil {
		c.StatusMessage = *f.StatusMessage
	}
	if f.Role != nil {
		c.Role = *f.Role
	}
	if f.Department != nil {
		c.Department = *f.Department
	}
	if f.Rank != nil {
		c.Rank = *f.Rank
	}
	if f.Position != nil {
		c.Position = *f.Position
	}
	if f.Company != nil {
		c.Company = *f.Company
	}
	if f.AvatarURL != nil {
		c.AvatarURL = *f.AvatarURL
	}
	if f.DateOfBirth != nil {
		c.DateOfBirth = *f.DateOfBirth
	}
	if f.Locale != nil {
		c.Locale = *f.Locale
	}
	if f.Timezone != nil {
		c.Timezone = *f.Timezone
	}
}
