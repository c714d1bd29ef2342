package domain

// JWT claim keys and token kinds shared by the issuer and the bearer middleware.
const (
	ClaimSubject = "sub"
	ClaimRole    = "role"
	ClaimType    = "type"

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)
