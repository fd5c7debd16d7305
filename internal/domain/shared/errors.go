package shared

// DomainError is an error with a stable machine-readable code that
// handlers map onto HTTP responses.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError from a code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Errors shared across domains.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrDiscountNotStarted  = NewDomainError("DISCOUNT_NOT_STARTED", "Discount code is not active yet")
	ErrDiscountExpired     = NewDomainError("DISCOUNT_EXPIRED", "Discount code has expired")
	ErrDiscountMinimum     = NewDomainError("DISCOUNT_MINIMUM_NOT_MET", "Cart subtotal is below the discount minimum")
	ErrInvalidSignature    = NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")
	ErrReservationExpired  = NewDomainError("RESERVATION_EXPIRED", "Stock reservation has expired")
)
