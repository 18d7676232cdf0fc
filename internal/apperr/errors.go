// Package apperr defines the closed set of error kinds the API can return and
// the operation-scoped codes resolvers attach before errors leave the process.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error. The set is closed.
type Kind int

const (
	KindStoreUnavailable Kind = iota
	KindUnauthenticated
	KindForbidden
	KindInvalidInput
	KindNotFound
	KindConflict
	KindInvalidPassword
)

var kindCodes = map[Kind]string{
	KindStoreUnavailable: "STORE_UNAVAILABLE",
	KindUnauthenticated:  "UNAUTHENTICATED",
	KindForbidden:        "FORBIDDEN",
	KindInvalidInput:     "INVALID_INPUT",
	KindNotFound:         "NOT_FOUND",
	KindConflict:         "CONFLICT",
	KindInvalidPassword:  "INVALID_PASSWORD",
}

// Code returns the stable machine-readable code for the kind.
func (k Kind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return kindCodes[KindStoreUnavailable]
}

func (k Kind) String() string {
	return k.Code()
}

// Op is an operation-scoped error code.
type Op string

const (
	OpCreateUser               Op = "CREATE_USER_ERROR"
	OpLoginUser                Op = "LOGIN_USER_ERROR"
	OpGetUser                  Op = "GET_USER_ERROR"
	OpGetUsers                 Op = "GET_USERS_ERROR"
	OpUpdateUser               Op = "UPDATE_USER_ERROR"
	OpDeleteUser               Op = "DELETE_USER_ERROR"
	OpGetRestaurant            Op = "GET_RESTAURANT_ERROR"
	OpGetRestaurants           Op = "GET_RESTAURANTS_ERROR"
	OpSearchRestaurants        Op = "SEARCH_RESTAURANTS_ERROR"
	OpGetNearbyRestaurants     Op = "GET_NEARBY_RESTAURANTS_ERROR"
	OpCreateRestaurant         Op = "CREATE_RESTAURANT_ERROR"
	OpUpdateRestaurant         Op = "UPDATE_RESTAURANT_ERROR"
	OpDeleteRestaurant         Op = "DELETE_RESTAURANT_ERROR"
	OpUpdateRestaurantLocation Op = "UPDATE_RESTAURANT_LOCATION_ERROR"
	OpUpdateRestaurantSchedule Op = "UPDATE_RESTAURANT_SCHEDULE_ERROR"
)

var opDescriptions = map[Op]string{
	OpCreateUser:               "Failed to create user",
	OpLoginUser:                "Failed to login user",
	OpGetUser:                  "Failed to get user",
	OpGetUsers:                 "Failed to get users",
	OpUpdateUser:               "Failed to update user",
	OpDeleteUser:               "Failed to delete user",
	OpGetRestaurant:            "Failed to get restaurant",
	OpGetRestaurants:           "Failed to get restaurants",
	OpSearchRestaurants:        "Failed to search restaurants",
	OpGetNearbyRestaurants:     "Failed to get nearby restaurants",
	OpCreateRestaurant:         "Failed to create restaurant",
	OpUpdateRestaurant:         "Failed to update restaurant",
	OpDeleteRestaurant:         "Failed to delete restaurant",
	OpUpdateRestaurantLocation: "Failed to update restaurant location",
	OpUpdateRestaurantSchedule: "Failed to update restaurant schedule",
}

// Describe returns the human prefix used for messages of this operation.
func (o Op) Describe() string {
	if d, ok := opDescriptions[o]; ok {
		return d
	}
	return "Request failed"
}

// Error is the only error type that crosses the API boundary. Err keeps the
// underlying cause for logs and errors.Is; it is never shown to callers.
type Error struct {
	Kind    Kind
	Op      Op
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op.Describe(), e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extensions exposes the machine-readable part of the error to GraphQL clients.
func (e *Error) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"kind": e.Kind.Code(),
	}
	if e.Op != "" {
		ext["code"] = string(e.Op)
	} else {
		ext["code"] = e.Kind.Code()
	}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func InvalidInput(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(field, message string) *Error {
	return &Error{Kind: KindConflict, Field: field, Message: message}
}

func InvalidPassword() *Error {
	return &Error{Kind: KindInvalidPassword, Message: "Invalid password"}
}

// StoreUnavailable hides the raw store error behind a generic message.
func StoreUnavailable(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "store unavailable", Err: err}
}

// KindOf reports the kind of err. Errors outside the taxonomy count as
// StoreUnavailable.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStoreUnavailable
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// WithOp returns a copy of err scoped to op. Errors outside the taxonomy are
// replaced by a StoreUnavailable error so their text never reaches callers.
func WithOp(err error, op Op) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = StoreUnavailable(err)
	}
	scoped := *appErr
	scoped.Op = op
	return &scoped
}
