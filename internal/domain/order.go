package domain

import (
	"regexp"
	"time"
)

type OrderStatus string

const (
	StatusPending             OrderStatus = "PENDING"
	StatusPendingVerification OrderStatus = "PENDING_VERIFICATION"
	StatusCompleted           OrderStatus = "COMPLETED"
	StatusFailed              OrderStatus = "FAILED"
	StatusExpired             OrderStatus = "EXPIRED"
)

const (
	MinOrderAmount = 1.0
	MaxOrderAmount = 100000.0

	MaxMerchantNameLen = 100
)

var (
	utrPattern        = regexp.MustCompile(`^[a-zA-Z0-9]{12}$`)
	payAddressPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{1,255}@[a-zA-Z]{2,64}$`)
)

// Metadata keys stamped by lifecycle transitions. The bag itself is
// free-form provenance and must survive every transition untouched
// except for the keys the transition adds.
const (
	MetaTimerMinutes     = "timer_minutes"
	MetaPayAddressSource = "pay_address_source"
	MetaSubmissionIP     = "submission_ip"
	MetaUTRSubmittedAt   = "utr_submitted_at"
	MetaUTRSubmittedBy   = "utr_submitted_by"
	MetaUTRRemovedAt     = "utr_removed_at"
	MetaUTRRemovedBy     = "utr_removed_by"
	MetaRemovedUTR       = "removed_utr"
	MetaDecidedAt        = "decided_at"
	MetaDecidedBy        = "decided_by"
	MetaDecisionReason   = "decision_reason"
	MetaExpiredAt        = "expired_at"
	MetaExpiredBy        = "expired_by"
)

type Order struct {
	ID           string
	Amount       float64
	MerchantName string
	PayAddress   string
	Status       OrderStatus
	UTR          *string
	CreatedBy    string
	Metadata     map[string]string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time
}

// statusTransitions is the full edge set of the order state machine.
// Terminal statuses have no outgoing edges.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:             {StatusPendingVerification, StatusExpired},
	StatusPendingVerification: {StatusCompleted, StatusFailed, StatusPending, StatusExpired},
}

func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusExpired
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPendingVerification, StatusCompleted, StatusFailed, StatusExpired:
		return true
	}
	return false
}

func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// LogicallyExpired reports whether the order has outlived its payment
// window but has not yet been transitioned to EXPIRED. Only PENDING
// orders expire: once a UTR is submitted the timer stops and the order
// waits for an operator decision.
func (o *Order) LogicallyExpired(now time.Time) bool {
	return o.Status == StatusPending && now.After(o.ExpiresAt)
}

func (o *Order) HasUTR() bool {
	return o.UTR != nil && *o.UTR != ""
}

// SetMeta lazily allocates the metadata bag and stamps a key.
func (o *Order) SetMeta(key, value string) {
	if o.Metadata == nil {
		o.Metadata = make(map[string]string)
	}
	o.Metadata[key] = value
}

func ValidateAmount(amount float64) error {
	if amount < MinOrderAmount || amount > MaxOrderAmount {
		return NewValidationError("amount must be between %.0f and %.0f", MinOrderAmount, MaxOrderAmount)
	}
	return nil
}

func ValidateMerchantName(name string) error {
	if name == "" {
		return NewValidationError("merchant name is required")
	}
	if len(name) > MaxMerchantNameLen {
		return NewValidationError("merchant name exceeds %d characters", MaxMerchantNameLen)
	}
	return nil
}

// ValidatePayAddress checks the UPI VPA shape (handle@psp).
func ValidatePayAddress(address string) error {
	if address == "" {
		return NewValidationError("pay address is required")
	}
	if !payAddressPattern.MatchString(address) {
		return NewValidationError("pay address %q is not a valid VPA", address)
	}
	return nil
}

// ValidateUTR checks the bank reference format: exactly 12 alphanumeric
// characters. Authenticity is never checked here; that is the operator's
// manual call.
func ValidateUTR(utr string) error {
	if !utrPattern.MatchString(utr) {
		return NewValidationError("utr must be exactly 12 alphanumeric characters")
	}
	return nil
}
