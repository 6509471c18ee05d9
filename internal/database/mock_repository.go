package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/emilythestrangee/blogicum/backend/internal/models"
	"github.com/emilythestrangee/blogicum/backend/internal/pagination"
)

// MockRepository is an in-memory Store for tests. It applies the same
// visibility, ordering and comment counting rules as Repository.
type MockRepository struct {
	mu sync.RWMutex

	users      map[int]*models.User
	categories map[int]*models.Category
	locations  map[int]*models.Location
	posts      map[int]*models.Post
	comments   map[int]*models.Comment
	nextID     int

	errMu    sync.Mutex
	failures map[string]error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		users:      make(map[int]*models.User),
		categories: make(map[int]*models.Category),
		locations:  make(map[int]*models.Location),
		posts:      make(map[int]*models.Post),
		comments:   make(map[int]*models.Comment),
		failures:   make(map[string]error),
	}
}

// FailNext makes the next call to the named method, such as "CreatePost",
// return err instead of touching the store.
func (m *MockRepository) FailNext(method string, err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	m.failures[method] = err
}

// checkError returns and clears the failure queued for method.
func (m *MockRepository) checkError(method string) error {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	err, ok := m.failures[method]
	if !ok {
		return nil
	}
	delete(m.failures, method)
	return err
}

func (m *MockRepository) id() int {
	m.nextID++
	return m.nextID
}

// AddCategory stores c directly, as an administrator would.
func (m *MockRepository) AddCategory(c models.Category) *models.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.id()
	m.categories[c.ID] = &c
	return &c
}

func (m *MockRepository) AddLocation(l models.Location) *models.Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = m.id()
	m.locations[l.ID] = &l
	return &l
}

// hydrate returns a copy of p with its associations attached.
func (m *MockRepository) hydrate(p *models.Post) models.Post {
	out := *p
	if u, ok := m.users[p.AuthorID]; ok {
		out.Author = *u
	}
	if c, ok := m.categories[p.CategoryID]; ok {
		out.Category = *c
	}
	out.Location = nil
	if p.LocationID != nil {
		if l, ok := m.locations[*p.LocationID]; ok {
			loc := *l
			out.Location = &loc
		}
	}
	out.CommentCount = 0
	for _, c := range m.comments {
		if c.PostID == p.ID {
			out.CommentCount++
		}
	}
	return out
}

func (m *MockRepository) list(method, rawPage string, keep func(models.Post) bool) ([]models.Post, pagination.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError(method); err != nil {
		return nil, pagination.Page{}, err
	}

	var matched []models.Post
	for _, p := range m.posts {
		full := m.hydrate(p)
		if keep(full) {
			matched = append(matched, full)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].PubDate.After(matched[j].PubDate)
	})

	page := pagination.New(rawPage, int64(len(matched)), pagination.PageSize)
	start := page.Offset()
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	out := []models.Post{}
	if start < len(matched) {
		out = append(out, matched[start:end]...)
	}
	return out, page, nil
}

func (m *MockRepository) ListPublicPosts(_ context.Context, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	return m.list("ListPublicPosts", rawPage, func(p models.Post) bool { return p.IsPublic(now) })
}

func (m *MockRepository) ListCategoryPosts(_ context.Context, categoryID int, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	return m.list("ListCategoryPosts", rawPage, func(p models.Post) bool {
		return p.CategoryID == categoryID && p.IsPublic(now)
	})
}

func (m *MockRepository) ListAuthorPosts(_ context.Context, authorID int, includeHidden bool, now time.Time, rawPage string) ([]models.Post, pagination.Page, error) {
	return m.list("ListAuthorPosts", rawPage, func(p models.Post) bool {
		return p.AuthorID == authorID && (includeHidden || p.IsPublic(now))
	})
}

func (m *MockRepository) GetPost(_ context.Context, id int) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetPost"); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	full := m.hydrate(p)
	return &full, nil
}

func (m *MockRepository) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreatePost"); err != nil {
		return err
	}
	post.ID = m.id()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	stored := *post
	m.posts[post.ID] = &stored
	return nil
}

func (m *MockRepository) UpdatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdatePost"); err != nil {
		return err
	}
	stored, ok := m.posts[post.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Title = post.Title
	stored.Text = post.Text
	stored.PubDate = post.PubDate
	stored.IsPublished = post.IsPublished
	stored.Image = post.Image
	stored.CategoryID = post.CategoryID
	stored.LocationID = post.LocationID
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockRepository) DeletePost(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeletePost"); err != nil {
		return err
	}
	if _, ok := m.posts[id]; !ok {
		return ErrNotFound
	}
	delete(m.posts, id)
	for cid, c := range m.comments {
		if c.PostID == id {
			delete(m.comments, cid)
		}
	}
	return nil
}

func (m *MockRepository) ListComments(_ context.Context, postID int) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("ListComments"); err != nil {
		return nil, err
	}
	out := []models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			full := *c
			if u, ok := m.users[c.AuthorID]; ok {
				full.Author = *u
			}
			out = append(out, full)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockRepository) GetComment(_ context.Context, id int) (*models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetComment"); err != nil {
		return nil, err
	}
	c, ok := m.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	full := *c
	if u, ok := m.users[c.AuthorID]; ok {
		full.Author = *u
	}
	return &full, nil
}

func (m *MockRepository) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreateComment"); err != nil {
		return err
	}
	if _, ok := m.posts[comment.PostID]; !ok {
		return ErrNotFound
	}
	comment.ID = m.id()
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	m.comments[comment.ID] = &stored
	return nil
}

func (m *MockRepository) UpdateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdateComment"); err != nil {
		return err
	}
	stored, ok := m.comments[comment.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Text = comment.Text
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockRepository) DeleteComment(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeleteComment"); err != nil {
		return err
	}
	if _, ok := m.comments[id]; !ok {
		return ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *MockRepository) GetUser(_ context.Context, id int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetUser"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *MockRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetUserByUsername"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// conflict reports the unique column user would collide on, if any.
func (m *MockRepository) conflict(user *models.User) error {
	for _, u := range m.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return &DuplicateError{Constraint: "uni_users_username"}
		}
		if u.Email == user.Email {
			return &DuplicateError{Constraint: "uni_users_email"}
		}
	}
	return nil
}

func (m *MockRepository) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("CreateUser"); err != nil {
		return err
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	user.ID = m.id()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockRepository) UpdateProfile(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdateProfile"); err != nil {
		return err
	}
	stored, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	stored.Username = user.Username
	stored.FirstName = user.FirstName
	stored.LastName = user.LastName
	stored.Email = user.Email
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MockRepository) ListEmails(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("ListEmails"); err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	var emails []string
	for _, id := range ids {
		if e := m.users[id].Email; e != "" {
			emails = append(emails, e)
		}
	}
	return emails, nil
}

func (m *MockRepository) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetCategoryBySlug"); err != nil {
		return nil, err
	}
	for _, c := range m.categories {
		if c.Slug == slug {
			out := *c
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockRepository) GetCategory(_ context.Context, id int) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetCategory"); err != nil {
		return nil, err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *MockRepository) GetLocation(_ context.Context, id int) (*models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("GetLocation"); err != nil {
		return nil, err
	}
	l, ok := m.locations[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *l
	return &out, nil
}

func (m *MockRepository) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("ListCategories"); err != nil {
		return nil, err
	}
	out := []models.Category{}
	for _, c := range m.categories {
		if c.IsPublished {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *MockRepository) ListLocations(_ context.Context) ([]models.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.checkError("ListLocations"); err != nil {
		return nil, err
	}
	out := []models.Location{}
	for _, l := range m.locations {
		if l.IsPublished {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
