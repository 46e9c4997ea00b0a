package domain

import "errors"

// Domain errors
var (
	ErrNotFound             = errors.New("resource not found")
	ErrAlreadyExists        = errors.New("resource already exists")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInternalError        = errors.New("internal error")
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrNotAMember           = errors.New("user is not a member of the organization")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrSubCategoryNotFound  = errors.New("sub-category not found")
	ErrRefundNotFound       = errors.New("refund not found")
	ErrNoteNotFound         = errors.New("note not found")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrTaskNotFound         = errors.New("task not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrLabelRequired        = errors.New("label is required")
	ErrNameRequired         = errors.New("name is required")
	ErrTitleRequired        = errors.New("title is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrNotesTooLong         = errors.New("notes exceed maximum length")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidCategoryType  = errors.New("invalid category type")
	ErrInvalidVisibility    = errors.New("invalid visibility filter")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
	ErrSubCategoryMismatch  = errors.New("sub-category does not belong to category")
	ErrSystemCategory       = errors.New("system categories cannot be modified")
	ErrCategoryInUse        = errors.New("category is referenced by transactions")
	ErrInvalidDateRange     = errors.New("end must not be before start")
	ErrLastOwner            = errors.New("organization must keep at least one owner")
)

// Validation constants
const (
	MaxLabelLength = 255
	MaxNameLength  = 255
	MaxTitleLength = 255
	MaxNotesLength = 1000
)
