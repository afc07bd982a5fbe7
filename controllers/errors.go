package controllers

// CustomError is a plain error with a fixed public message.
type CustomError struct {
	Message string
}

func (e *CustomError) Error() string {
	return e.Message
}

var (
	ErrNoPermission   = &CustomError{"you do not have permission"}
	ErrTenantMismatch = &CustomError{"resource belongs to another restaurant"}
	ErrTableClosed    = &CustomError{"table is not open for ordering"}
	ErrCartEmpty      = &CustomError{"no unprocessed items in cart"}
	ErrTokenExpired   = &CustomError{"order token has expired"}
	ErrTokenUsed      = &CustomError{"order token already received"}
)
