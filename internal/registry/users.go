package registry

import (
	"sort"
	"sync"

	"minoj/internal/model"
	"minoj/pkg/errors"
)

// RootUserName is the seeded user 0
const RootUserName = "root"

// Users is the in-memory user registry, the source of truth for
// registered users. IDs are allocated monotonically and never reused.
type Users struct {
	mu    sync.RWMutex
	users map[uint64]*model.User
	next  uint64
}

// NewUsers creates a registry seeded with the root user
func NewUsers() *Users {
	root := uint64(0)
	return &Users{
		users: map[uint64]*model.User{0: {ID: &root, Name: RootUserName}},
		next:  1,
	}
}

// Hydrate merges persisted users into the registry. A persisted user 0
// overrides the seeded root name.
func (r *Users) Hydrate(users []model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range users {
		u := users[i]
		if u.ID == nil {
			continue
		}
		id := *u.ID
		if id == 0 {
			r.users[0].Name = u.Name
			continue
		}
		r.users[id] = u.Clone()
		if id >= r.next {
			r.next = id + 1
		}
	}
}

// Get returns a copy of the user with the given id
func (r *Users) Get(id uint64) (*model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, false
	}
	return u.Clone(), true
}

// Exists reports whether the user id is registered
func (r *Users) Exists(id uint64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[id]
	return ok
}

// Name returns the name of the user, empty when absent
func (r *Users) Name(id uint64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if u, ok := r.users[id]; ok {
		return u.Name
	}
	return ""
}

// Create registers a new user with the next free id. The name must not
// collide with any registered user.
func (r *Users) Create(name string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Name == name {
			return nil, errors.Newf(errors.InvalidArgument, "User name '%s' already exists.", name)
		}
	}
	id := r.next
	r.next++
	user := &model.User{ID: &id, Name: name}
	r.users[id] = user
	return user.Clone(), nil
}

// Update renames an existing user. The name must not collide with any
// other registered user.
func (r *Users) Update(id uint64, name string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.Newf(errors.NotFound, "User %d not found.", id)
	}
	for otherID, other := range r.users {
		if otherID != id && other.Name == name {
			return nil, errors.Newf(errors.InvalidArgument, "User name '%s' already exists.", name)
		}
	}
	u.Name = name
	return u.Clone(), nil
}

// List returns all users in ascending id order
func (r *Users) List() []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return *users[i].ID < *users[j].ID })
	return users
}
