package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access
// token on authenticated API requests.
const AuthorizationHeaderName = "Authorization"

// InsulinTypeApidra and InsulinTypeLong are the two insulin kinds a diary
// entry can carry. Food text is only meaningful for apidra entries.
const (
	InsulinTypeApidra = "apidra"
	InsulinTypeLong   = "long"
)

// CarbUnitGrams is the grams of carbohydrate in one carb unit (ХЕ).
const CarbUnitGrams = 12.0
