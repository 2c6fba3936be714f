package service

import (
	"context"
	"strings"
	"sync"
)

// PairLocker 以规范化键（有序 sender|receiver 对，或排序后的参与者对）
// 串行化"查重后插入"，补上存储层缺失的原子性。
// 生产环境用 Redis SETNX 租约实现，测试/单机用进程内互斥。
type PairLocker interface {
	// Lock 返回解锁函数；拿不到锁时阻塞或报错由实现决定
	Lock(ctx context.Context, key string) (func(), error)
}

// RequestPairKey 好友申请查重键：有序 (sender, receiver) 对
func RequestPairKey(senderID, receiverID string) string {
	return "freq:" + senderID + "|" + receiverID
}

// DirectPairKey 单聊会话查重键：排序后的参与者对
func DirectPairKey(participants []string) string {
	return "dm:" + strings.Join(participants, "|")
}

// LocalPairLocker 进程内键级互斥
type LocalPairLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalPairLocker() *LocalPairLocker {
	return &LocalPairLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalPairLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
