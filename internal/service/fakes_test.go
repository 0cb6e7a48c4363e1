package service

import (
	"context"
	"time"

	"github.com/chatterhq/chatter/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the service tests.

type memUserRepo struct {
	byID    map[primitive.ObjectID]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		byID:    map[primitive.ObjectID]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	if _, taken := m.byEmail[u.Email]; taken {
		return domain.ErrDuplicateKey
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *memUserRepo) GetByEmailWithPassword(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) Update(_ context.Context, id primitive.ObjectID, upd domain.UserUpdate) (*domain.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Email != "" && upd.Email != u.Email {
		if _, taken := m.byEmail[upd.Email]; taken {
			return nil, domain.ErrDuplicateKey
		}
		delete(m.byEmail, u.Email)
		u.Email = upd.Email
		m.byEmail[u.Email] = u
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Password != "" {
		u.Password = upd.Password
	}
	u.UpdatedAt = time.Now()
	cp := *u
	cp.Password = ""
	return &cp, nil
}

func (m *memUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	u, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.byEmail, u.Email)
	delete(m.byID, id)
	return nil
}

type memPostRepo struct {
	posts map[primitive.ObjectID]*domain.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: map[primitive.ObjectID]*domain.Post{}}
}

func (m *memPostRepo) Create(_ context.Context, p *domain.Post) error {
	p.ID = primitive.NewObjectID()
	if p.Status == "" {
		p.Status = domain.PostStatusPending
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.posts[p.ID] = &cp
	return nil
}

func (m *memPostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPostRepo) UpdateOwned(_ context.Context, id, owner primitive.ObjectID, upd domain.PostUpdate) (*domain.Post, error) {
	p, ok := m.posts[id]
	if !ok || p.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if upd.Title != "" {
		p.Title = upd.Title
	}
	if upd.EditPropose != nil {
		p.EditPropose = upd.EditPropose
		p.ToUpdate = true
		p.Status = domain.PostStatusInReview
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *memPostRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	p, ok := m.posts[id]
	if !ok || p.Owner != owner {
		return domain.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPostRepo) AddComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	p, ok := m.posts[postID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Comments = append(p.Comments, commentID)
	return nil
}

func (m *memPostRepo) ActivatePendingBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, p := range m.posts {
		if p.Status == domain.PostStatusPending && p.CreatedAt.Before(cutoff) {
			p.Status = domain.PostStatusActive
			n++
		}
	}
	return n, nil
}

type memCommentRepo struct {
	comments map[primitive.ObjectID]*domain.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[primitive.ObjectID]*domain.Comment{}}
}

func (m *memCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *memCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCommentRepo) UpdateOwned(_ context.Context, id, owner primitive.ObjectID, upd domain.CommentUpdate) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok || c.Owner != owner {
		return nil, domain.ErrNotFound
	}
	if upd.Text != nil {
		c.Text = *upd.Text
	}
	if upd.Image != nil {
		c.Image = *upd.Image
	}
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (m *memCommentRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	c, ok := m.comments[id]
	if !ok || c.Owner != owner {
		return domain.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *memCommentRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	var n int64
	for id, c := range m.comments {
		if c.Post == postID {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

type memGroupRepo struct {
	groups map[primitive.ObjectID]*domain.Group
	byName map[string]*domain.Group
}

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{
		groups: map[primitive.ObjectID]*domain.Group{},
		byName: map[string]*domain.Group{},
	}
}

func (m *memGroupRepo) Create(_ context.Context, g *domain.Group) error {
	if _, taken := m.byName[g.Name]; taken {
		return domain.ErrDuplicateKey
	}
	g.ID = primitive.NewObjectID()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	m.groups[g.ID] = &cp
	m.byName[g.Name] = &cp
	return nil
}

func (m *memGroupRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Group, error) {
	g, ok := m.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGroupRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.Group, error) {
	out := []domain.Group{}
	for _, g := range m.groups {
		for _, member := range g.Users {
			if member.User == userID {
				out = append(out, *g)
				break
			}
		}
	}
	return out, nil
}

type memPostBodyRepo struct {
	bodies map[primitive.ObjectID]*domain.PostBody
}

func newMemPostBodyRepo() *memPostBodyRepo {
	return &memPostBodyRepo{bodies: map[primitive.ObjectID]*domain.PostBody{}}
}

func (m *memPostBodyRepo) Create(_ context.Context, b *domain.PostBody) error {
	b.ID = primitive.NewObjectID()
	if b.PostType == "" {
		b.PostType = "PostBody"
	}
	if b.Status == "" {
		b.Status = domain.PostBodyStatusPending
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.bodies[b.ID] = &cp
	return nil
}

func (m *memPostBodyRepo) DeleteOne(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.bodies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.bodies, id)
	return nil
}

func (m *memPostBodyRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) (int64, error) {
	var n int64
	for id, b := range m.bodies {
		if b.Post != nil && *b.Post == postID {
			delete(m.bodies, id)
			n++
		}
	}
	return n, nil
}
