package handlers

import (
	"errors"
	"strconv"

	"fuelgenie-api/internal/config"
	"fuelgenie-api/internal/core/domain"
	"fuelgenie-api/internal/core/services"
	"fuelgenie-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles role and permission management endpoints
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
	}
}

// CreateRole handles creating a role with its permission matrix (Admin only)
// @Summary Create role
// @Description Create a role with module/sub-module CRUD grants (Admin only)
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateRoleInput true "Role definition"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /roles [post]
func (h *RoleHandler) CreateRole(c *fiber.Ctx) error {
	var input services.CreateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.RoleName == "" {
		return response.BadRequest(c, "Role name is required")
	}

	role, err := h.roleService.CreateRole(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleAlreadyExists):
			return response.Conflict(c, "Role name already exists")
		case errors.Is(err, domain.ErrEmptyRoleName),
			errors.Is(err, domain.ErrEmptyModuleName):
			return response.BadRequest(c, "Role and module names cannot be empty")
		case errors.Is(err, domain.ErrEmptyPermissions):
			return response.BadRequest(c, "Each sub-module grant needs at least one permission")
		default:
			return response.InternalServerError(c, "Failed to create role")
		}
	}

	return response.Created(c, "Role created successfully", fiber.Map{
		"role": role,
	})
}

// GetRole handles getting a role by ID
// @Summary Get role by ID
// @Description Get a role with its full permission matrix
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	role, err := h.roleService.GetRole(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to get role")
	}

	return response.Success(c, "Role retrieved successfully", fiber.Map{
		"role": role,
	})
}

// ListRoles handles listing all roles
// @Summary List roles
// @Description List all roles with their permission matrices
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *RoleHandler) ListRoles(c *fiber.Ctx) error {
	roles, err := h.roleService.ListRoles(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}

	return response.Success(c, "Roles retrieved successfully", fiber.Map{
		"roles": roles,
	})
}

// UpdateRole handles replacing a role's permission matrix (Admin only)
// @Summary Update role permissions
// @Description Replace a role's module/sub-module CRUD grants (Admin only)
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body services.UpdateRoleInput true "New permission matrix"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var input services.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, err := h.roleService.UpdateRole(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, services.ErrRoleProtected):
			return response.Forbidden(c, "System roles cannot be modified")
		case errors.Is(err, domain.ErrEmptyModuleName):
			return response.BadRequest(c, "Module names cannot be empty")
		case errors.Is(err, domain.ErrEmptyPermissions):
			return response.BadRequest(c, "Each sub-module grant needs at least one permission")
		default:
			return response.InternalServerError(c, "Failed to update role")
		}
	}

	return response.Success(c, "Role updated successfully", fiber.Map{
		"role": role,
	})
}

// DeleteRole handles deleting a role (Admin only)
// @Summary Delete role
// @Description Delete a role and detach it from all team assignments (Admin only)
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	if err := h.roleService.DeleteRole(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, services.ErrRoleProtected):
			return response.Forbidden(c, "System roles cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete role")
		}
	}

	return response.Success(c, "Role deleted successfully", nil)
}

// GetModuleCatalog handles listing the navigable module catalog
// @Summary Get module catalog
// @Description List all modules and sub-modules available for permission grants
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles/catalog [get]
func (h *RoleHandler) GetModuleCatalog(c *fiber.Ctx) error {
	return response.Success(c, "Module catalog retrieved successfully", fiber.Map{
		"modules": config.ModuleCatalog(),
	})
}
