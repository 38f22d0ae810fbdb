// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess   = "success"
	KeyError     = "error"
	KeyForbidden = "forbidden"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Listings
	KeyListingCreated      = "listing.created"
	KeyListingNotFound     = "listing.not_found"
	KeyListingNotYours     = "listing.not_yours"
	KeyListingFarmersOnly  = "listing.farmers_only"
	KeyListingInactive     = "listing.inactive"
	KeyListingInsufficient = "listing.insufficient_qty"

	// Contracts
	KeyContractCreated     = "contract.created"
	KeyContractAccepted    = "contract.accepted"
	KeyContractRejected    = "contract.rejected"
	KeyContractCancelled   = "contract.cancelled"
	KeyContractCompleted   = "contract.completed"
	KeyContractNotFound    = "contract.not_found"
	KeyContractNotPending  = "contract.not_pending"
	KeyContractNotActive   = "contract.not_active"
	KeyContractNotParty    = "contract.not_party"
	KeyContractFarmersOnly = "contract.farmers_only"
	KeyContractTradersOnly = "contract.traders_only"

	// Market data
	KeyMarketNoData = "market.no_data"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// Users
	KeyUserNotFound = "user.not_found"
)
