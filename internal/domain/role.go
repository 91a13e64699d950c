package domain

import "strings"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleFarmer Role = "farmer"
	RoleAdmin  Role = "admin"
)

// Action is something an authenticated user asks to do. Every route that
// needs more than authentication names one.
type Action string

const (
	ActionManageCart         Action = "cart:manage"
	ActionCheckout           Action = "orders:checkout"
	ActionViewOwnOrders      Action = "orders:view_own"
	ActionCancelOwnOrder     Action = "orders:cancel_own"
	ActionManageFarmerOrders Action = "orders:manage_farmer"
	ActionManageProducts     Action = "products:manage"
)

var policy = map[Action][]Role{
	ActionManageCart:         {RoleBuyer, RoleFarmer, RoleAdmin},
	ActionCheckout:           {RoleBuyer, RoleFarmer, RoleAdmin},
	ActionViewOwnOrders:      {RoleBuyer, RoleFarmer, RoleAdmin},
	ActionCancelOwnOrder:     {RoleBuyer, RoleFarmer, RoleAdmin},
	ActionManageFarmerOrders: {RoleFarmer},
	ActionManageProducts:     {RoleFarmer},
}

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleBuyer, RoleFarmer, RoleAdmin:
		return r, nil
	default:
		return "", Validationf("unknown role %q", s)
	}
}

// Can reports whether the role may perform the action. Unknown actions are
// denied.
func (r Role) Can(a Action) bool {
	for _, allowed := range policy[a] {
		if allowed == r {
			return true
		}
	}
	return false
}

// SelfRegistrable reports whether a user may pick this role at sign-up.
func (r Role) SelfRegistrable() bool {
	return r == RoleBuyer || r == RoleFarmer
}
