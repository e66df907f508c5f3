package handlers

import (
	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// navTree is the full sidebar of the console in display order. The
// always-allowed entries carry no submodules and are visible to every
// authenticated user; the rest is filtered per the caller's permissions.
var navTree = []domain.NavModule{
	{ModuleName: "dashboard", Path: "/dashboard", AlwaysAllowed: true},
	{ModuleName: "orders", Path: "/orders", SubModules: []domain.NavItem{
		{SubModuleName: "order-list", Path: "/orders/list"},
		{SubModuleName: "order-create", Path: "/orders/create"},
		{SubModuleName: "order-dispatch", Path: "/orders/dispatch"},
	}},
	{ModuleName: "customers", Path: "/customers", SubModules: []domain.NavItem{
		{SubModuleName: "customer-list", Path: "/customers/list"},
		{SubModuleName: "customer-onboarding", Path: "/customers/onboarding"},
	}},
	{ModuleName: "credit", Path: "/credit", SubModules: []domain.NavItem{
		{SubModuleName: "credit-accounts", Path: "/credit/accounts"},
		{SubModuleName: "credit-upgrade", Path: "/credit/upgrade"},
		{SubModuleName: "extra-credit", Path: "/credit/extra"},
	}},
	{ModuleName: "payments", Path: "/payments", SubModules: []domain.NavItem{
		{SubModuleName: "settlements", Path: "/payments/settlements"},
		{SubModuleName: "partial-payments", Path: "/payments/partial"},
		{SubModuleName: "payment-history", Path: "/payments/history"},
	}},
	{ModuleName: "verification", Path: "/verification", SubModules: []domain.NavItem{
		{SubModuleName: "cheque-verification", Path: "/verification/cheques"},
		{SubModuleName: "transfer-verification", Path: "/verification/transfers"},
	}},
	{ModuleName: "assets", Path: "/assets", SubModules: []domain.NavItem{
		{SubModuleName: "pump-list", Path: "/assets/pumps"},
		{SubModuleName: "tanker-list", Path: "/assets/tankers"},
	}},
	{ModuleName: "reports", Path: "/reports", SubModules: []domain.NavItem{
		{SubModuleName: "sales-report", Path: "/reports/sales"},
		{SubModuleName: "outstanding-report", Path: "/reports/outstanding"},
	}},
	{ModuleName: "user-management", Path: "/admin", SubModules: []domain.NavItem{
		{SubModuleName: "users", Path: "/admin/users"},
		{SubModuleName: "roles", Path: "/admin/roles"},
		{SubModuleName: "teams", Path: "/admin/teams"},
	}},
	{ModuleName: "profile", Path: "/profile", AlwaysAllowed: true},
	{ModuleName: "settings", Path: "/settings", AlwaysAllowed: true},
}

// NavHandler serves the permission-filtered sidebar
type NavHandler struct {
	accessService *services.AccessService
}

// NewNavHandler creates a new nav handler
func NewNavHandler(accessService *services.AccessService) *NavHandler {
	return &NavHandler{
		accessService: accessService,
	}
}

// GetNav returns the sidebar filtered to what the caller may see
// @Summary Get navigation
// @Description Get the sidebar navigation filtered by the caller's permissions
// @Tags Navigation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /nav [get]
func (h *NavHandler) GetNav(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	visible, err := h.accessService.FilterNav(c.Context(), userID, navTree)
	if err != nil {
		return response.InternalServerError(c, "Failed to build navigation")
	}

	return response.Success(c, "Navigation retrieved successfully", fiber.Map{
		"nav": visible,
	})
}
