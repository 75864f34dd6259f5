package association

import "sync/atomic"

// lazy 计算一次并发布的缓存槽。
//
// 计算在无锁状态下进行，并发首次访问可能重复计算，第一个成功的结果被发布，
// 其余结果丢弃。计算失败不缓存，后续访问会重试（例如目标类稍后才注册）。
type lazy[T any] struct {
	v atomic.Pointer[T]
}

func (l *lazy[T]) get(compute func() (T, error)) (T, error) {
	if p := l.v.Load(); p != nil {
		return *p, nil
	}

	v, err := compute()
	if err != nil {
		return v, err
	}

	l.v.CompareAndSwap(nil, &v)
	return *l.v.Load(), nil
}

func (l *lazy[T]) loaded() bool {
	return l.v.Load() != nil
}
