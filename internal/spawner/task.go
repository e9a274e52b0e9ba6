package spawner

import "sync"

// Status 生成任务生命周期状态
// 低于 StatusNone 的状态均视为失败/中止
type Status int

const (
	StatusKilled  Status = -2 // 进程被杀死
	StatusAborted Status = -1 // 请求被中止
	StatusNone    Status = 0  // 基准状态

	StatusQueued            Status = 1 // 已排队
	StatusProcessRegistered Status = 2 // 进程已注册
	StatusProcessStarted    Status = 3 // 进程已启动
	StatusFinalized         Status = 4 // 终态：游戏服务器就绪
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusKilled:
		return "Killed"
	case StatusAborted:
		return "Aborted"
	case StatusNone:
		return "None"
	case StatusQueued:
		return "Queued"
	case StatusProcessRegistered:
		return "ProcessRegistered"
	case StatusProcessStarted:
		return "ProcessStarted"
	case StatusFinalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

// StatusHandler 状态变更回调
type StatusHandler func(status Status)

// SpawnTask 一次生成请求
// 状态流转由生成器一侧驱动，订阅者按注册顺序收到每次变更
type SpawnTask struct {
	id         int
	machine    *Machine
	properties map[string]string
	region     string
	options    map[string]string

	mu           sync.Mutex
	status       Status
	listeners    map[int]StatusHandler
	nextListener int
	finalization map[string]string
}

func newSpawnTask(id int, machine *Machine, properties map[string]string, region string, options map[string]string) *SpawnTask {
	return &SpawnTask{
		id:         id,
		machine:    machine,
		properties: properties,
		region:     region,
		options:    options,
		status:     StatusQueued,
		listeners:  make(map[int]StatusHandler),
	}
}

// ID 任务 ID
func (t *SpawnTask) ID() int {
	return t.id
}

// Region 目标区域
func (t *SpawnTask) Region() string {
	return t.region
}

// Options 附加选项（如 lobbyId）
func (t *SpawnTask) Options() map[string]string {
	return t.options
}

// Status 当前状态
func (t *SpawnTask) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// OnStatusChanged 订阅状态变更，返回取消订阅函数
// 取消订阅是幂等的，重复调用无副作用
func (t *SpawnTask) OnStatusChanged(handler StatusHandler) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextListener
	t.nextListener++
	t.listeners[id] = handler
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.listeners, id)
		t.mu.Unlock()
	}
}

// UpdateStatus 更新任务状态并通知订阅者
// 任务一旦中止/被杀死，后续更新全部忽略
func (t *SpawnTask) UpdateStatus(status Status) {
	t.mu.Lock()
	if t.status < StatusNone || t.status == status {
		t.mu.Unlock()
		return
	}
	t.status = status

	// 复制监听器列表，通知时不持锁，避免与订阅者内部锁互相等待
	handlers := make([]StatusHandler, 0, len(t.listeners))
	for _, h := range t.listeners {
		handlers = append(handlers, h)
	}
	t.mu.Unlock()

	for _, h := range handlers {
		h(status)
	}

	if status < StatusNone && t.machine != nil {
		t.machine.releaseSlot()
	}
}

// Finalize 设置完成数据并进入 Finalized 终态
func (t *SpawnTask) Finalize(data map[string]string) {
	t.mu.Lock()
	t.finalization = data
	t.mu.Unlock()

	t.UpdateStatus(StatusFinalized)
}

// FinalizationData 完成数据（应包含 roomId），未完成时返回 nil
func (t *SpawnTask) FinalizationData() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalization
}

// Abort 中止任务
// 对已完成或已失败的任务调用是安全的空操作
func (t *SpawnTask) Abort() {
	t.mu.Lock()
	if t.status == StatusFinalized || t.status < StatusNone {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.UpdateStatus(StatusAborted)
}
