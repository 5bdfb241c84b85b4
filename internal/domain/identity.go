package domain

// Identity carries the already-authenticated caller resolved by the
// upstream gateway. The service trusts it as provenance for audit
// attribution and creator scoping; it performs no authentication of
// its own.
type Identity struct {
	UserID string
	Role   string
}

const (
	RoleMerchant = "merchant"
	RoleOperator = "operator"
)

func (i Identity) IsOperator() bool {
	return i.Role == RoleOperator
}
