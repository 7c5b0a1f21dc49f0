package models

// User roles issued by the identity provider. The core treats the role as an
// opaque attribute; only route guards inspect it.
const (
	RoleBidManager = "bid_manager"
	RoleBidUser    = "bid_user"
	RoleExecutive  = "executive"
)
