package image

import "sync"

// recordLocks 按记录标识符互斥。
// 同一条记录上的远程调用和本地持久化必须作为一个整体执行，
// 不允许两个并发修改交错各自的远程/本地步骤。
// 锁不回收，数量以记录数为上界。
type recordLocks struct {
	locks sync.Map // identifier -> *sync.Mutex
}

// lock 锁定指定记录，返回解锁函数
func (r *recordLocks) lock(identifier string) func() {
	value, _ := r.locks.LoadOrStore(identifier, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
