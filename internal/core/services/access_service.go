package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"
	"fuelgenie-api/internal/core/domain"

	"gorm.io/gorm"
)

// snapshotTTL bounds how stale a cached permission snapshot may get before
// the next request reloads it from the database
const snapshotTTL = 2 * time.Minute

type snapshotEntry struct {
	Snapshot  *domain.PermissionSnapshot
	ExpiresAt time.Time
}

// AccessService resolves permission snapshots and answers allow/deny
// questions for the route guard and the navigation filter.
type AccessService struct {
	userRepo  repositories.UserRepository
	evaluator *domain.Evaluator

	cache map[uint]*snapshotEntry // key = user ID
	mu    sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewAccessService creates a new access service
func NewAccessService(userRepo repositories.UserRepository) *AccessService {
	svc := &AccessService{
		userRepo:  userRepo,
		evaluator: domain.NewEvaluator(),
		cache:     make(map[uint]*snapshotEntry),
		stop:      make(chan struct{}),
	}
	// Drop stale snapshots every 5 minutes
	go svc.cleanupLoop()
	return svc
}

// Close stops the cache cleanup goroutine. Safe to call more than once.
func (s *AccessService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// GetSnapshot returns the resolved permission snapshot for a user, served
// from cache when fresh
func (s *AccessService) GetSnapshot(ctx context.Context, userID uint) (*domain.PermissionSnapshot, error) {
	s.mu.RLock()
	entry, ok := s.cache[userID]
	s.mu.RUnlock()
	if ok && time.Now().Before(entry.ExpiresAt) {
		return entry.Snapshot, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	snapshot := buildSnapshot(user)

	s.mu.Lock()
	s.cache[userID] = &snapshotEntry{
		Snapshot:  snapshot,
		ExpiresAt: time.Now().Add(snapshotTTL),
	}
	s.mu.Unlock()

	return snapshot, nil
}

// Can reports whether the user may perform the action on the given
// module/submodule surface
func (s *AccessService) Can(ctx context.Context, userID uint, module, subModule string, action domain.Action) (bool, error) {
	snapshot, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.evaluator.Evaluate(snapshot, module, subModule, action), nil
}

// FilterNav returns the subset of the navigation tree visible to the user
func (s *AccessService) FilterNav(ctx context.Context, userID uint, tree []domain.NavModule) ([]domain.NavModule, error) {
	snapshot, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.FilterNav(tree, snapshot), nil
}

// Invalidate drops the cached snapshot of a user. Role management calls this
// after any permission mutation so the change takes effect immediately.
func (s *AccessService) Invalidate(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, userID)
}

// InvalidateAll drops every cached snapshot. Used when a role definition
// shared by many users changes.
func (s *AccessService) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[uint]*snapshotEntry)
}

// cleanupLoop periodically removes expired snapshots until Close is called
func (s *AccessService) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			for key, entry := range s.cache {
				if time.Now().After(entry.ExpiresAt) {
					delete(s.cache, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// buildSnapshot flattens the user's preloaded team/role rows into the pure
// permission view consumed by the evaluator
func buildSnapshot(user *models.User) *domain.PermissionSnapshot {
	snapshot := &domain.PermissionSnapshot{}
	seenSections := make(map[string]int) // module name -> index in Sections

	for _, assignment := range user.TeamAssignments {
		team := domain.TeamRole{TeamName: assignment.TeamName}
		for _, role := range assignment.Roles {
			domainRole := role.ToDomain()
			team.Roles = append(team.Roles, domainRole)

			// Merge the role's sections into the flattened grant list
			for _, section := range domainRole.Sections {
				idx, ok := seenSections[section.ModuleName]
				if !ok {
					snapshot.Sections = append(snapshot.Sections, domain.Section{ModuleName: section.ModuleName})
					idx = len(snapshot.Sections) - 1
					seenSections[section.ModuleName] = idx
				}
				snapshot.Sections[idx].SubModules = mergeSubModules(snapshot.Sections[idx].SubModules, section.SubModules)
			}
		}
		snapshot.TeamAndRole = append(snapshot.TeamAndRole, team)
	}

	return snapshot
}

// mergeSubModules unions CRUD grants per submodule. A user holding several
// roles gets the most permissive combination.
func mergeSubModules(existing, incoming []domain.SubModulePermission) []domain.SubModulePermission {
	for _, in := range incoming {
		found := false
		for i := range existing {
			if existing[i].SubModuleName == in.SubModuleName {
				existing[i].Permissions.Create = existing[i].Permissions.Create || in.Permissions.Create
				existing[i].Permissions.Read = existing[i].Permissions.Read || in.Permissions.Read
				existing[i].Permissions.Update = existing[i].Permissions.Update || in.Permissions.Update
				existing[i].Permissions.Delete = existing[i].Permissions.Delete || in.Permissions.Delete
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, in)
		}
	}
	return existing
}
