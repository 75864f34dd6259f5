package model

import "errors"

var (
	// ErrClassNotFound 注册表中没有该类
	ErrClassNotFound = errors.New("model: class not found")
	// ErrClassAlreadyRegistered 同名类已注册
	ErrClassAlreadyRegistered = errors.New("model: class already registered")
	// ErrDuplicateAssociation 同一节点类上重复声明同名关联
	ErrDuplicateAssociation = errors.New("model: duplicate association")
)
