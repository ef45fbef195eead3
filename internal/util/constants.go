package util

const (
	ModeDebug   = "debug"
	ModeRelease = "release"
)

const (
	RoleOperator = "operator"
	RoleAdmin    = "admin"
)

const (
	ContextClaimsKey = "operator"
	BearerPrefix     = "Bearer "
)
