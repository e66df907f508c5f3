package repositories

import (
	"context"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// Create creates a role together with its nested sections and permissions
func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

// GetByID gets a role with its full permission tree
func (r *roleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Sections").
		Preload("Sections.SubModules").
		First(&role, id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByName gets a role by its unique name
func (r *roleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).
		Preload("Sections").
		Preload("Sections.SubModules").
		Where("role_name = ?", name).
		First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// List lists all roles with their permission trees
func (r *roleRepository) List(ctx context.Context) ([]*models.Role, error) {
	var roles []*models.Role
	err := r.db.WithContext(ctx).
		Preload("Sections").
		Preload("Sections.SubModules").
		Order("role_name ASC").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// ExistsByName checks if a role name is taken
func (r *roleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Role{}).Where("role_name = ?", name).Count(&count).Error
	return count > 0, err
}

// ReplaceSections swaps the role's permission tree for a new one atomically
func (r *roleRepository) ReplaceSections(ctx context.Context, roleID uint, sections []models.RoleSection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old []models.RoleSection
		if err := tx.Where("role_id = ?", roleID).Find(&old).Error; err != nil {
			return err
		}
		for _, section := range old {
			if err := tx.Where("role_section_id = ?", section.ID).Delete(&models.SubModulePermission{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RoleSection{}).Error; err != nil {
			return err
		}
		for i := range sections {
			sections[i].ID = 0
			sections[i].RoleID = roleID
			for j := range sections[i].SubModules {
				sections[i].SubModules[j].ID = 0
			}
		}
		if len(sections) == 0 {
			return nil
		}
		return tx.Create(&sections).Error
	})
}

// Delete soft deletes a role and detaches it from all team assignments
func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM team_assignment_roles WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Role{}, id).Error
	})
}
