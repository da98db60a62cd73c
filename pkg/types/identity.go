package types

// Caller roles as supplied by the upstream authentication step. The ledger
// trusts these values verbatim; verifying them is the authenticator's job.
const (
	RoleAdmin    = "admin"
	RoleFarmer   = "farmer"
	RoleMandi    = "mandi"
	RoleRetailer = "retailer"
)

// Caller is the resolved identity attached to a request. FarmerID is an
// optional alternate farmer-scoped identity some callers present alongside
// their primary ID.
type Caller struct {
	ID       string `json:"id"`
	Role     string `json:"role"`
	FarmerID string `json:"farmerId,omitempty"`
}

// IsAdmin reports whether the caller holds the administrator role.
// Administrators override ownership checks.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the caller's primary or alternate farmer identity
// matches the given owner reference.
func (c Caller) Owns(farmerID string) bool {
	if farmerID == "" {
		return false
	}
	return c.ID == farmerID || c.FarmerID == farmerID
}
