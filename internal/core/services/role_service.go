package services

import (
	"context"
	"errors"
	"log"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/adapters/persistence/repositories"
	"fuelgenie-api/internal/core/domain"

	"gorm.io/gorm"
)

// Role service errors
var (
	ErrRoleNotFound      = errors.New("role not found")
	ErrRoleAlreadyExists = errors.New("role name already exists")
	ErrRoleProtected     = errors.New("system roles cannot be modified or deleted")
)

// RoleService handles role and permission matrix management
type RoleService struct {
	roleRepo repositories.RoleRepository
	access   *AccessService
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo repositories.RoleRepository, access *AccessService) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		access:   access,
	}
}

// SubModuleGrantInput is one CRUD grant row in a role definition
type SubModuleGrantInput struct {
	SubModuleName string `json:"sub_module_name" validate:"required"`
	Create        bool   `json:"create"`
	Read          bool   `json:"read"`
	Update        bool   `json:"update"`
	Delete        bool   `json:"delete"`
}

// SectionInput is one module grant in a role definition
type SectionInput struct {
	ModuleName string                `json:"module_name" validate:"required"`
	SubModules []SubModuleGrantInput `json:"sub_modules"`
}

// CreateRoleInput represents role creation input
type CreateRoleInput struct {
	RoleName string         `json:"role_name" validate:"required,min=2,max=50"`
	Sections []SectionInput `json:"sections"`
}

// UpdateRoleInput represents role permission update input
type UpdateRoleInput struct {
	Sections []SectionInput `json:"sections"`
}

// CreateRole creates a role with its permission matrix
func (s *RoleService) CreateRole(ctx context.Context, input *CreateRoleInput) (*models.Role, error) {
	// 1. Validate the matrix as a pure domain role first
	candidate := toDomainRole(input.RoleName, input.Sections)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	// 2. Role names are unique
	exists, err := s.roleRepo.ExistsByName(ctx, input.RoleName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoleAlreadyExists
	}

	// 3. Persist
	role := &models.Role{
		RoleName: input.RoleName,
		Sections: toModelSections(input.Sections),
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	log.Printf("✅ Role created: %s", role.RoleName)
	return role, nil
}

// GetRole gets a role with its full permission matrix
func (s *RoleService) GetRole(ctx context.Context, id uint) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return role, nil
}

// ListRoles lists all roles
func (s *RoleService) ListRoles(ctx context.Context) ([]*models.Role, error) {
	return s.roleRepo.List(ctx)
}

// UpdateRole replaces a role's permission matrix. System roles (ADMIN and
// the seeded starter roles) cannot be edited.
func (s *RoleService) UpdateRole(ctx context.Context, id uint, input *UpdateRoleInput) (*models.Role, error) {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSystem {
		return nil, ErrRoleProtected
	}

	candidate := toDomainRole(role.RoleName, input.Sections)
	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	if err := s.roleRepo.ReplaceSections(ctx, role.ID, toModelSections(input.Sections)); err != nil {
		return nil, err
	}

	// Permission grants changed underneath live sessions
	s.access.InvalidateAll()

	log.Printf("✅ Role updated: %s", role.RoleName)
	return s.GetRole(ctx, id)
}

// DeleteRole soft deletes a role and detaches it everywhere
func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrRoleProtected
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.access.InvalidateAll()

	log.Printf("✅ Role deleted: %s", role.RoleName)
	return nil
}

// toDomainRole builds a pure role for validation
func toDomainRole(name string, sections []SectionInput) *domain.Role {
	role := &domain.Role{RoleName: name}
	for _, section := range sections {
		s := domain.Section{ModuleName: section.ModuleName}
		for _, sub := range section.SubModules {
			s.SubModules = append(s.SubModules, domain.SubModulePermission{
				SubModuleName: sub.SubModuleName,
				Permissions: domain.Permissions{
					Create: sub.Create,
					Read:   sub.Read,
					Update: sub.Update,
					Delete: sub.Delete,
				},
			})
		}
		role.Sections = append(role.Sections, s)
	}
	return role
}

// toModelSections builds persistence rows from input
func toModelSections(sections []SectionInput) []models.RoleSection {
	var rows []models.RoleSection
	for _, section := range sections {
		row := models.RoleSection{ModuleName: section.ModuleName}
		for _, sub := range section.SubModules {
			row.SubModules = append(row.SubModules, models.SubModulePermission{
				SubModuleName: sub.SubModuleName,
				CanCreate:     sub.Create,
				CanRead:       sub.Read,
				CanUpdate:     sub.Update,
				CanDelete:     sub.Delete,
			})
		}
		rows = append(rows, row)
	}
	return rows
}
