package services

import "errors"

var (
	// ErrMatchNotFound 引用的比赛不存在
	ErrMatchNotFound = errors.New("match not found")

	// ErrMatchCompleted 已结束的比赛不能追加解说
	ErrMatchCompleted = errors.New("cannot add commentary to completed match")
)
