package repositories

import (
	"context"

	"fuelgenie-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID gets a user by ID with team/role assignments and full permission sections
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("TeamAssignments").
		Preload("TeamAssignments.Roles").
		Preload("TeamAssignments.Roles.Sections").
		Preload("TeamAssignments.Roles.Sections.SubModules").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("TeamAssignments").
		Preload("TeamAssignments.Roles").
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete soft deletes a user
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// List lists users with pagination
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Preload("TeamAssignments").
		Preload("TeamAssignments.Roles").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if email exists
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// AssignTeamRole attaches a role to the user's membership in a team,
// creating the membership row if it does not exist yet
func (r *userRepository) AssignTeamRole(ctx context.Context, userID uint, teamName string, roleID uint) error {
	var assignment models.TeamAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND team_name = ?", userID, teamName).
		FirstOrCreate(&assignment, models.TeamAssignment{UserID: userID, TeamName: teamName}).Error
	if err != nil {
		return err
	}

	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, roleID).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&assignment).Association("Roles").Append(&role)
}

// RemoveTeamRole detaches a role from the user's membership in a team
func (r *userRepository) RemoveTeamRole(ctx context.Context, userID uint, teamName string, roleID uint) error {
	var assignment models.TeamAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND team_name = ?", userID, teamName).
		First(&assignment).Error
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&assignment).Association("Roles").Delete(&models.Role{ID: roleID})
}
