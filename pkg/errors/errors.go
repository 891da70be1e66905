package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation  Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden   Code = "FORBIDDEN"
	CodeNotFound    Code = "NOT_FOUND"
	CodeConflict    Code = "CONFLICT"
	CodeRateLimit   Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal    Code = "INTERNAL_ERROR"
	CodeDependency  Code = "DEPENDENCY_ERROR"
	CodeIdempotency Code = "IDEMPOTENCY_KEY_REUSED"

	CodeDuplicateEmail    Code = "DUPLICATE_EMAIL"
	CodeDuplicateUsername Code = "DUPLICATE_USERNAME"
	CodeDuplicateOrderID  Code = "DUPLICATE_ORDER_ID"

	CodeAccountNotFound  Code = "ACCOUNT_NOT_FOUND"
	CodeOrderNotFound    Code = "ORDER_NOT_FOUND"
	CodeProductNotFound  Code = "PRODUCT_NOT_FOUND"
	CodeCustomerNotFound Code = "CUSTOMER_NOT_FOUND"
	CodeSupplierNotFound Code = "SUPPLIER_NOT_FOUND"

	CodeInvalidCredentials    Code = "INVALID_CREDENTIALS"
	CodeNotVerified           Code = "NOT_VERIFIED"
	CodeInvalidOrExpiredCode  Code = "INVALID_OR_EXPIRED_CODE"
	CodeNoPendingVerification Code = "NO_PENDING_VERIFICATION"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:     http.StatusUnauthorized,
		Retryable:      false,
		PublicMessage:  "authentication required",
		DetailsAllowed: false,
	},
	CodeForbidden: {
		HTTPStatus:     http.StatusForbidden,
		Retryable:      false,
		PublicMessage:  "access denied",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "conflict detected",
		DetailsAllowed: false,
	},
	CodeRateLimit: {
		HTTPStatus:     http.StatusTooManyRequests,
		Retryable:      false,
		PublicMessage:  "rate limit exceeded",
		DetailsAllowed: false,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		Retryable:      true,
		PublicMessage:  "internal server error",
		DetailsAllowed: false,
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeDuplicateEmail: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "email already registered",
		DetailsAllowed: false,
	},
	CodeDuplicateUsername: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "username already taken",
		DetailsAllowed: false,
	},
	CodeDuplicateOrderID: {
		HTTPStatus:     http.StatusConflict,
		Retryable:      false,
		PublicMessage:  "order id already exists",
		DetailsAllowed: false,
	},
	CodeAccountNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "account not found",
		DetailsAllowed: false,
	},
	CodeOrderNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "order not found",
		DetailsAllowed: false,
	},
	CodeProductNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "product not found",
		DetailsAllowed: true,
	},
	CodeCustomerNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "customer not found",
		DetailsAllowed: false,
	},
	CodeSupplierNotFound: {
		HTTPStatus:     http.StatusNotFound,
		Retryable:      false,
		PublicMessage:  "supplier not found",
		DetailsAllowed: false,
	},
	CodeInvalidCredentials: {
		HTTPStatus:     http.StatusUnauthorized,
		Retryable:      false,
		PublicMessage:  "invalid credentials",
		DetailsAllowed: false,
	},
	CodeNotVerified: {
		HTTPStatus:     http.StatusUnauthorized,
		Retryable:      false,
		PublicMessage:  "account is not verified",
		DetailsAllowed: false,
	},
	CodeInvalidOrExpiredCode: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "verification code is invalid or expired",
		DetailsAllowed: false,
	},
	CodeNoPendingVerification: {
		HTTPStatus:     http.StatusBadRequest,
		Retryable:      false,
		PublicMessage:  "no pending verification for this account",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the provided domain code.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
