package services

import "github.com/diewo77/go-ledger/internal/config"

// Policy holds the optional input rules. The zero value accepts everything
// the store accepts, including inconsistent manual payment updates.
type Policy struct {
	RequireCustomerName          bool
	RejectNegativeAmounts        bool
	RequireKnownCustomer         bool
	RequireCurrentPassword       bool
	EnforceVerificationInvariant bool
}

// DefaultPolicy is the behaviour used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{EnforceVerificationInvariant: true}
}

func PolicyFromConfig(c config.PolicyConfig) Policy {
	return Policy{
		RequireCustomerName:          c.RequireCustomerName,
		RejectNegativeAmounts:        c.RejectNegativeAmounts,
		RequireKnownCustomer:         c.RequireKnownCustomer,
		RequireCurrentPassword:       c.RequireCurrentPassword,
		EnforceVerificationInvariant: c.EnforceVerificationInvariant,
	}
}
