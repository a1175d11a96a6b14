package service

import "errors"

// 业务层错误，handler 据此映射 HTTP 状态码
var (
	// ErrSelfRequest 不允许对自己发起好友请求
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrRequestExists 已存在好友关系或待处理请求
	ErrRequestExists = errors.New("friend request already exists")

	// ErrNotFound 目标资源不存在或对当前用户不可见
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden 当前用户无权访问该资源
	ErrForbidden = errors.New("access denied")

	// ErrConflict 并发修改冲突，可重试
	ErrConflict = errors.New("transaction conflict")

	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserExists 用户名或邮箱已被占用
	ErrUserExists = errors.New("username or email already taken")
)
