package access

import "strings"

// Role is the coarse permission level attached to a signed-in user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleRegional    Role = "regional"
	RoleStore       Role = "store"
	RoleMaintenance Role = "maintenance"
	RoleStaff       Role = "staff"
)

// ParseRole normalises a role name. Unknown names are returned as-is and
// fall through to the most restrictive rules below.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRegional, RoleStore, RoleMaintenance, RoleStaff:
		return true
	}
	return false
}

// Principal is the authenticated actor behind a request. StoreID is the
// bound store for store-scoped roles and zero otherwise.
type Principal struct {
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	StoreID int64  `json:"storeId,omitempty"`
}

// SeesAllStores reports whether the role is not bound to a single store.
func SeesAllStores(r Role) bool {
	switch r {
	case RoleAdmin, RoleRegional, RoleMaintenance:
		return true
	}
	return false
}

// CanChooseStore reports whether the role may narrow its view to a store of
// its choosing.
func CanChooseStore(r Role) bool {
	return r == RoleAdmin || r == RoleRegional
}

// CanCreate reports whether the role may open new job logs.
func CanCreate(r Role) bool {
	switch r {
	case RoleAdmin, RoleRegional, RoleStore, RoleMaintenance:
		return true
	}
	return false
}

// ShowsUnscheduledPanel reports whether the unscheduled-jobs panel and its
// drag affordances are offered to the role.
func ShowsUnscheduledPanel(r Role) bool {
	return r == RoleMaintenance
}

// CanDrag reports whether the role may drag jobs between slots.
func CanDrag(r Role) bool {
	return ShowsUnscheduledPanel(r)
}

// Visible reports whether p may see jobs belonging to storeID.
func Visible(p Principal, storeID int64) bool {
	if SeesAllStores(p.Role) {
		return true
	}
	return p.StoreID != 0 && p.StoreID == storeID
}

// CanEdit reports whether p may reschedule, comment on or re-flag jobs
// belonging to storeID.
func CanEdit(p Principal, storeID int64) bool {
	switch p.Role {
	case RoleAdmin, RoleRegional, RoleMaintenance:
		return true
	case RoleStore:
		return p.StoreID != 0 && p.StoreID == storeID
	}
	return false
}

// Scope resolves which stores a query issued by p may touch. all is true
// when every store is in scope; otherwise storeID is the single store.
// A requested store is honoured only for roles that may choose one.
func Scope(p Principal, requested int64) (storeID int64, all bool) {
	if CanChooseStore(p.Role) {
		if requested > 0 {
			return requested, false
		}
		return 0, true
	}
	if SeesAllStores(p.Role) {
		return 0, true
	}
	return p.StoreID, false
}
