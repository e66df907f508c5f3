package services

import (
	"context"
	"sync"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// ── In-memory repository fakes ──────────────────────────────────────────────

type fakeUserRepo struct {
	mu           sync.Mutex
	users        map[uint]*models.User
	nextID       uint
	getByIDCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (r *fakeUserRepo) put(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getByIDCalls++
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	r.put(user)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		all = append(all, user)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(context.Background(), username)
	return err == nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeUserRepo) AssignTeamRole(_ context.Context, userID uint, teamName string, roleID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.TeamAssignments = append(user.TeamAssignments, models.TeamAssignment{
		UserID:   userID,
		TeamName: teamName,
		Roles:    []models.Role{{ID: roleID}},
	})
	return nil
}

func (r *fakeUserRepo) RemoveTeamRole(_ context.Context, userID uint, teamName string, roleID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i, assignment := range user.TeamAssignments {
		if assignment.TeamName != teamName {
			continue
		}
		kept := assignment.Roles[:0]
		for _, role := range assignment.Roles {
			if role.ID != roleID {
				kept = append(kept, role)
			}
		}
		user.TeamAssignments[i].Roles = kept
	}
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*models.RefreshToken // key = token hash
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[tokenHash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return token, nil
}

func (r *fakeRefreshTokenRepo) RevokeByTokenHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[tokenHash]; ok && token.RevokedAt == nil {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			now := time.Now()
			token.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	return nil
}

type fakeRoleRepo struct {
	mu     sync.Mutex
	roles  map[uint]*models.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[uint]*models.Role), nextID: 1}
}

func (r *fakeRoleRepo) Create(_ context.Context, role *models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role.ID == 0 {
		role.ID = r.nextID
		r.nextID++
	}
	r.roles[role.ID] = role
	return nil
}

func (r *fakeRoleRepo) GetByID(_ context.Context, id uint) (*models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r *fakeRoleRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.RoleName == name {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) List(_ context.Context) ([]*models.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Role, 0, len(r.roles))
	for _, role := range r.roles {
		all = append(all, role)
	}
	return all, nil
}

func (r *fakeRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	_, err := r.GetByName(context.Background(), name)
	return err == nil, nil
}

func (r *fakeRoleRepo) ReplaceSections(_ context.Context, roleID uint, sections []models.RoleSection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	role.Sections = sections
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, id)
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*models.Customer // key = CID
	nextID    uint
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[string]*models.Customer), nextID: 1}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if customer.ID == 0 {
		customer.ID = r.nextID
		r.nextID++
	}
	r.customers[customer.CID] = customer
	return nil
}

func (r *fakeCustomerRepo) GetByCID(_ context.Context, cid string) (*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[cid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (r *fakeCustomerRepo) Exists(_ context.Context, cid string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.customers[cid]
	return ok, nil
}

func (r *fakeCustomerRepo) List(_ context.Context, offset, limit int) ([]*models.Customer, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		all = append(all, customer)
	}
	total := int64(len(all))
	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeCustomerRepo) Search(_ context.Context, query string, limit int) ([]*models.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Customer
	for _, customer := range r.customers {
		if len(matched) == limit {
			break
		}
		if customer.CID == query || customer.BusinessName == query {
			matched = append(matched, customer)
		}
	}
	return matched, nil
}
