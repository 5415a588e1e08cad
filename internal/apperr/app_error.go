package apperr

import "github.com/tuannm151/sweetshop/pkg/zerror"

const (
	ValidationErrorCode    = "VALIDATION_FAILED"
	UsernameTakenCode      = "USERNAME_ALREADY_EXISTS"
	EmailTakenCode         = "EMAIL_ALREADY_EXISTS"
	InvalidCredentialsCode = "INVALID_CREDENTIALS"
	UnauthenticatedCode    = "UNAUTHENTICATED"
	AdminRequiredCode      = "ADMIN_REQUIRED"
	SweetNotFoundCode      = "SWEET_NOT_FOUND"
	SweetNameTakenCode     = "SWEET_NAME_ALREADY_EXISTS"
	InsufficientStockCode  = "INSUFFICIENT_STOCK"
	NonPositiveRestockCode = "NON_POSITIVE_RESTOCK"
	NegativePriceCode      = "NEGATIVE_PRICE"
	NegativeQuantityCode   = "NEGATIVE_QUANTITY"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// Registration conflicts keep the original API's wording.
	UsernameTakenErr = zerror.NewConflict(UsernameTakenCode, "Username already exists")
	EmailTakenErr    = zerror.NewConflict(EmailTakenCode, "Email already exists")

	// InvalidCredentialsErr intentionally covers both unknown-username and
	// wrong-password so the response does not reveal which one failed.
	InvalidCredentialsErr = zerror.NewUnauthorized(InvalidCredentialsCode, "Invalid credentials")

	UnauthenticatedErr = zerror.NewUnauthorized(UnauthenticatedCode, "Could not validate credentials")
	AdminRequiredErr   = zerror.NewForbidden(AdminRequiredCode, "Admin privileges required")

	SweetNotFoundErr  = zerror.NewNotFound(SweetNotFoundCode, "Sweet not found")
	SweetNameTakenErr = zerror.NewConflict(SweetNameTakenCode, "Sweet with this name already exists")

	InsufficientStockErr  = zerror.NewValidationFailed(InsufficientStockCode, "Insufficient quantity")
	NonPositiveRestockErr = zerror.NewValidationFailed(NonPositiveRestockCode, "Restock quantity must be positive")
	NegativePriceErr      = zerror.NewValidationFailed(NegativePriceCode, "Price must not be negative")
	NegativeQuantityErr   = zerror.NewValidationFailed(NegativeQuantityCode, "Quantity must not be negative")
)
