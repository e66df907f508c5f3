package config

import (
	"log"

	"fuelgenie-api/internal/adapters/persistence/models"
	"fuelgenie-api/internal/core/domain"
)

// moduleCatalog is the navigable surface of the console. Role editors pick
// from this catalog when composing a permission matrix; dashboard, profile
// and settings are always-allowed and therefore not listed here.
var moduleCatalog = map[string][]string{
	"orders":          {"order-list", "order-create", "order-dispatch"},
	"customers":       {"customer-list", "customer-onboarding"},
	"credit":          {"credit-accounts", "credit-upgrade", "extra-credit"},
	"payments":        {"settlements", "partial-payments", "payment-history"},
	"verification":    {"cheque-verification", "transfer-verification"},
	"assets":          {"pump-list", "tanker-list"},
	"reports":         {"sales-report", "outstanding-report"},
	"user-management": {"users", "roles", "teams"},
}

// ModuleCatalog returns the seeded module/submodule surface
func ModuleCatalog() map[string][]string {
	return moduleCatalog
}

// seedRoles seeds the protected ADMIN role and two starter roles
func (s *Seeder) seedRoles() error {
	var count int64
	s.db.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return nil // Roles already seeded
	}

	// ADMIN carries no sections: the evaluator grants it everything by name
	admin := &models.Role{
		RoleName: domain.AdminRoleName,
		IsSystem: true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	finance := &models.Role{
		RoleName: "FINANCE_OFFICER",
		IsSystem: true,
		Sections: []models.RoleSection{
			{
				ModuleName: "credit",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "credit-accounts", CanCreate: true, CanRead: true, CanUpdate: true},
					{SubModuleName: "credit-upgrade", CanRead: true, CanUpdate: true},
					{SubModuleName: "extra-credit", CanCreate: true, CanRead: true},
				},
			},
			{
				ModuleName: "payments",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "settlements", CanCreate: true, CanRead: true},
					{SubModuleName: "partial-payments", CanCreate: true, CanRead: true},
					{SubModuleName: "payment-history", CanRead: true},
				},
			},
			{
				ModuleName: "verification",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "cheque-verification", CanRead: true, CanUpdate: true},
					{SubModuleName: "transfer-verification", CanRead: true, CanUpdate: true},
				},
			},
			{
				ModuleName: "reports",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "outstanding-report", CanRead: true},
				},
			},
		},
	}
	if err := s.db.Create(finance).Error; err != nil {
		return err
	}

	operator := &models.Role{
		RoleName: "OPERATIONS",
		IsSystem: true,
		Sections: []models.RoleSection{
			{
				ModuleName: "orders",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "order-list", CanRead: true},
					{SubModuleName: "order-create", CanCreate: true, CanRead: true},
					{SubModuleName: "order-dispatch", CanRead: true, CanUpdate: true},
				},
			},
			{
				ModuleName: "customers",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "customer-list", CanRead: true},
				},
			},
			{
				ModuleName: "assets",
				SubModules: []models.SubModulePermission{
					{SubModuleName: "pump-list", CanRead: true, CanUpdate: true},
					{SubModuleName: "tanker-list", CanRead: true},
				},
			},
		},
	}
	if err := s.db.Create(operator).Error; err != nil {
		return err
	}

	log.Println("✅ Default roles seeded: ADMIN, FINANCE_OFFICER, OPERATIONS")
	return nil
}
