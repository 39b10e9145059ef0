// Package access maps actor roles to the operations they may perform.
package access

import (
	"context"

	"inventory-billing/internal/model"
)

// Role is the permission level of an authenticated user.
type Role string

// Known roles. Staff is the default billing-only role.
const (
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Operation is a protected action of the system.
type Operation string

// Protected operations.
const (
	OpCreateUser     Operation = "create_user"
	OpMutateProducts Operation = "mutate_products"
	OpReadProducts   Operation = "read_products"
	OpBill           Operation = "bill"
	OpReadDashboard  Operation = "read_dashboard"
)

// roles lists every valid role. Adding a role means adding it here and to policy.
var roles = []Role{RoleStaff, RoleAdmin, RoleSuperAdmin}

// policy is the explicit (operation -> allowed roles) table.
var policy = map[Operation]map[Role]bool{
	OpCreateUser: {
		RoleSuperAdmin: true,
	},
	OpMutateProducts: {
		RoleAdmin:      true,
		RoleSuperAdmin: true,
	},
	OpReadProducts: {
		RoleStaff:      true,
		RoleAdmin:      true,
		RoleSuperAdmin: true,
	},
	OpBill: {
		RoleStaff:      true,
		RoleAdmin:      true,
		RoleSuperAdmin: true,
	},
	OpReadDashboard: {
		RoleStaff:      true,
		RoleAdmin:      true,
		RoleSuperAdmin: true,
	},
}

// ParseRole converts a string into a known Role.
func ParseRole(s string) (Role, bool) {
	for _, r := range roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	Username string
	Role     Role
}

// Allowed reports whether role may perform op.
func Allowed(role Role, op Operation) bool {
	return policy[op][role]
}

// CanCreateUser reports whether role may create users.
func CanCreateUser(role Role) bool { return Allowed(role, OpCreateUser) }

// CanMutateProducts reports whether role may add, delete or restock products.
func CanMutateProducts(role Role) bool { return Allowed(role, OpMutateProducts) }

// CanBill reports whether role may submit sales.
func CanBill(role Role) bool { return Allowed(role, OpBill) }

// CanReadProducts reports whether role may list products.
func CanReadProducts(role Role) bool { return Allowed(role, OpReadProducts) }

// Authorize checks that actor is authenticated and allowed to perform op.
// It returns model.ErrUnauthenticated for a missing actor or unknown role and
// model.ErrForbidden when the role lacks permission.
func Authorize(actor *Actor, op Operation) error {
	if actor == nil || actor.Username == "" || !actor.Role.Valid() {
		return model.ErrUnauthenticated
	}
	if !Allowed(actor.Role, op) {
		return model.ErrForbidden
	}
	return nil
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or nil.
func ActorFromContext(ctx context.Context) *Actor {
	actor, _ := ctx.Value(actorKey{}).(*Actor)
	return actor
}
