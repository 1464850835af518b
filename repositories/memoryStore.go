package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/models"
)

// memoryDB keeps every collection behind one mutex, so each repository call
// is atomic just like a single-document Mongo update. Used with
// STORE_BACKEND=memory and by tests.
type memoryDB struct {
	mu sync.Mutex

	users      map[primitive.ObjectID]*models.User
	dishes     map[primitive.ObjectID]*models.Dish
	dishOrder  []primitive.ObjectID
	pending    map[primitive.ObjectID]*models.PendingDish
	categories []models.Category
}

func NewMemoryStore() *Store {
	db := &memoryDB{
		users:   make(map[primitive.ObjectID]*models.User),
		dishes:  make(map[primitive.ObjectID]*models.Dish),
		pending: make(map[primitive.ObjectID]*models.PendingDish),
	}
	return &Store{
		Users:      &memoryUsers{db: db},
		Dishes:     &memoryDishes{db: db},
		Pending:    &memoryPending{db: db},
		Categories: &memoryCategories{db: db},
		Tx:         memoryTransactor{},
	}
}

type memoryTransactor struct{}

func (memoryTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(ids))
	copy(out, ids)
	return out
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.LikedDishes = cloneIDs(u.LikedDishes)
	c.SavedDishes = cloneIDs(u.SavedDishes)
	return &c
}

func cloneDish(d *models.Dish) *models.Dish {
	c := *d
	c.Likes = cloneIDs(d.Likes)
	c.Comments = make([]models.Comment, len(d.Comments))
	copy(c.Comments, d.Comments)
	if d.SourceSubmissionID != nil {
		source := *d.SourceSubmissionID
		c.SourceSubmissionID = &source
	}
	return &c
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for _, v := range ids {
		if v == id {
			return ids, false
		}
	}
	return append(ids, id), true
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	out := ids[:0]
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}

type memoryUsers struct {
	db *memoryDB
}

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, u := range r.db.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.db.users[user.ID] = cloneUser(user)
	return nil
}

func (r *memoryUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	email = models.NormalizeEmail(email)
	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUsers) mutate(id primitive.ObjectID, fn func(u *models.User) bool) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return false, ErrNotFound
	}
	return fn(u), nil
}

func (r *memoryUsers) AddLikedDish(_ context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) (changed bool) {
		u.LikedDishes, changed = addID(u.LikedDishes, dishID)
		return changed
	})
}

func (r *memoryUsers) RemoveLikedDish(_ context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) (changed bool) {
		u.LikedDishes, changed = removeID(u.LikedDishes, dishID)
		return changed
	})
}

func (r *memoryUsers) AddSavedDish(_ context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) (changed bool) {
		u.SavedDishes, changed = addID(u.SavedDishes, dishID)
		return changed
	})
}

func (r *memoryUsers) RemoveSavedDish(_ context.Context, userID, dishID primitive.ObjectID) (bool, error) {
	return r.mutate(userID, func(u *models.User) (changed bool) {
		u.SavedDishes, changed = removeID(u.SavedDishes, dishID)
		return changed
	})
}

type memoryDishes struct {
	db *memoryDB
}

func (r *memoryDishes) insertLocked(dish *models.Dish) {
	if dish.ID.IsZero() {
		dish.ID = primitive.NewObjectID()
	}
	r.db.dishes[dish.ID] = cloneDish(dish)
	r.db.dishOrder = append(r.db.dishOrder, dish.ID)
}

func (r *memoryDishes) Create(_ context.Context, dish *models.Dish) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, exists := r.db.dishes[dish.ID]; exists && !dish.ID.IsZero() {
		return ErrDuplicate
	}
	r.insertLocked(dish)
	return nil
}

func (r *memoryDishes) UpsertBySource(_ context.Context, dish *models.Dish) (*models.Dish, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if dish.SourceSubmissionID != nil {
		for _, id := range r.db.dishOrder {
			existing := r.db.dishes[id]
			if existing.SourceSubmissionID != nil && *existing.SourceSubmissionID == *dish.SourceSubmissionID {
				return cloneDish(existing), nil
			}
		}
	}
	r.insertLocked(dish)
	return cloneDish(r.db.dishes[dish.ID]), nil
}

func (r *memoryDishes) FindByID(_ context.Context, id primitive.ObjectID) (*models.Dish, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	d, ok := r.db.dishes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDish(d), nil
}

func (r *memoryDishes) filter(match func(d *models.Dish) bool) []models.Dish {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := []models.Dish{}
	for _, id := range r.db.dishOrder {
		if d := r.db.dishes[id]; match(d) {
			out = append(out, *cloneDish(d))
		}
	}
	return out
}

func (r *memoryDishes) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Dish, error) {
	wanted := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.filter(func(d *models.Dish) bool { return wanted[d.ID] }), nil
}

func (r *memoryDishes) FindAll(_ context.Context, page Page) ([]models.Dish, error) {
	all := r.filter(func(*models.Dish) bool { return true })
	if page.Skip < 0 || page.Skip >= int64(len(all)) {
		return []models.Dish{}, nil
	}
	all = all[page.Skip:]
	if page.Limit > 0 && page.Limit < int64(len(all)) {
		all = all[:page.Limit]
	}
	return all, nil
}

func (r *memoryDishes) Count(_ context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.dishes)), nil
}

func (r *memoryDishes) FindTopLiked(_ context.Context, limit int64) ([]models.Dish, error) {
	all := r.filter(func(*models.Dish) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		return len(all[i].Likes) > len(all[j].Likes)
	})
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memoryDishes) FindByCategory(_ context.Context, category string) ([]models.Dish, error) {
	return r.filter(func(d *models.Dish) bool { return d.Category == category }), nil
}

func (r *memoryDishes) FindByCity(_ context.Context, state, city string) ([]models.Dish, error) {
	return r.filter(func(d *models.Dish) bool { return d.CityState == state && d.CityName == city }), nil
}

func (r *memoryDishes) FindByName(_ context.Context, name string) (*models.Dish, error) {
	found := r.filter(func(d *models.Dish) bool { return strings.EqualFold(d.DishName, name) })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (r *memoryDishes) mutate(id primitive.ObjectID, fn func(d *models.Dish) bool) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	d, ok := r.db.dishes[id]
	if !ok {
		return false, ErrNotFound
	}
	return fn(d), nil
}

func (r *memoryDishes) AddLiker(_ context.Context, dishID, userID primitive.ObjectID) (bool, error) {
	return r.mutate(dishID, func(d *models.Dish) (changed bool) {
		d.Likes, changed = addID(d.Likes, userID)
		return changed
	})
}

func (r *memoryDishes) RemoveLiker(_ context.Context, dishID, userID primitive.ObjectID) (bool, error) {
	return r.mutate(dishID, func(d *models.Dish) (changed bool) {
		d.Likes, changed = removeID(d.Likes, userID)
		return changed
	})
}

func (r *memoryDishes) AppendComment(_ context.Context, dishID primitive.ObjectID, comment models.Comment) (*models.Dish, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	d, ok := r.db.dishes[dishID]
	if !ok {
		return nil, ErrNotFound
	}
	d.Comments = append(d.Comments, comment)
	return cloneDish(d), nil
}

type memoryPending struct {
	db *memoryDB
}

func (r *memoryPending) Create(_ context.Context, pending *models.PendingDish) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if pending.ID.IsZero() {
		pending.ID = primitive.NewObjectID()
	}
	c := *pending
	r.db.pending[pending.ID] = &c
	return nil
}

func (r *memoryPending) FindByID(_ context.Context, id primitive.ObjectID) (*models.PendingDish, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.pending[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *memoryPending) filter(match func(p *models.PendingDish) bool) []models.PendingDish {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := []models.PendingDish{}
	for _, p := range r.db.pending {
		if match(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *memoryPending) FindByStatus(_ context.Context, status string) ([]models.PendingDish, error) {
	return r.filter(func(p *models.PendingDish) bool { return p.Status == status }), nil
}

func (r *memoryPending) FindBySubmitter(_ context.Context, userID primitive.ObjectID) ([]models.PendingDish, error) {
	return r.filter(func(p *models.PendingDish) bool { return p.UserInfo == userID }), nil
}

func (r *memoryPending) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.pending[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

func (r *memoryPending) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.pending[id]; !ok {
		return false, nil
	}
	delete(r.db.pending, id)
	return true, nil
}

type memoryCategories struct {
	db *memoryDB
}

func (r *memoryCategories) Create(_ context.Context, category *models.Category) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	r.db.categories = append(r.db.categories, *category)
	return nil
}

func (r *memoryCategories) FindAll(_ context.Context) ([]models.Category, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	out := make([]models.Category, len(r.db.categories))
	copy(out, r.db.categories)
	return out, nil
}
