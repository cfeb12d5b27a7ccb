package service

import "errors"

// 领域错误。API 层的统一转换器负责把它们映射为 HTTP 状态码。
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAwaitingApproval   = errors.New("awaiting admin approval")
	ErrAccountRejected    = errors.New("account has been rejected")
	ErrNothingToDelete    = errors.New("no users record found to delete")
)
