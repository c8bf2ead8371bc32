package domain

// PrincipalKind discriminates the two account stores sharing the token
// namespace.
type PrincipalKind string

const (
	PrincipalKindCustomer PrincipalKind = "CUSTOMER"
	PrincipalKindProvider PrincipalKind = "PROVIDER"
)

// Principal is the tagged union returned by identity resolution. Exactly one
// of Customer or Provider is populated, matching Kind.
type Principal struct {
	Kind     PrincipalKind
	Customer *Customer
	Provider *Provider
}

// CustomerPrincipal wraps a resolved customer record.
func CustomerPrincipal(c *Customer) Principal {
	return Principal{Kind: PrincipalKindCustomer, Customer: c}
}

// ProviderPrincipal wraps a resolved provider record.
func ProviderPrincipal(p *Provider) Principal {
	return Principal{Kind: PrincipalKindProvider, Provider: p}
}

// ID returns the subject id of the underlying record.
func (p Principal) ID() string {
	switch p.Kind {
	case PrincipalKindCustomer:
		return p.Customer.ID
	case PrincipalKindProvider:
		return p.Provider.ID
	}
	return ""
}

// Role returns the authorization tag for the principal. Customers carry
// their stored role (user or admin); providers always resolve to
// RoleProvider.
func (p Principal) Role() Role {
	switch p.Kind {
	case PrincipalKindCustomer:
		return p.Customer.Role
	case PrincipalKindProvider:
		return RoleProvider
	}
	return ""
}

// DisplayName returns the human-readable name of the principal.
func (p Principal) DisplayName() string {
	switch p.Kind {
	case PrincipalKindCustomer:
		return p.Customer.Name
	case PrincipalKindProvider:
		return p.Provider.Name
	}
	return ""
}

// Email returns the contact email of the principal.
func (p Principal) Email() string {
	switch p.Kind {
	case PrincipalKindCustomer:
		return p.Customer.Email
	case PrincipalKindProvider:
		return p.Provider.Email
	}
	return ""
}
