package spawner

import (
	"log"
	"sync"
)

// Machine 已注册的生成器机器
type Machine struct {
	ID           int
	Region       string
	MaxProcesses int

	mu        sync.Mutex
	processes int
}

// ProcessCount 当前占用的进程槽位数
func (m *Machine) ProcessCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.processes
}

// canSpawn 是否还有空闲槽位
func (m *Machine) canSpawn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MaxProcesses <= 0 || m.processes < m.MaxProcesses
}

func (m *Machine) takeSlot() {
	m.mu.Lock()
	m.processes++
	m.mu.Unlock()
}

func (m *Machine) releaseSlot() {
	m.mu.Lock()
	if m.processes > 0 {
		m.processes--
	}
	m.mu.Unlock()
}

// Module 生成器模块
// 管理所有已注册机器，并为大厅分配生成任务
type Module struct {
	mu            sync.RWMutex
	machines      map[int]*Machine
	tasks         map[int]*SpawnTask
	nextMachineID int
	nextTaskID    int
}

// NewModule 创建生成器模块
func NewModule() *Module {
	return &Module{
		machines: make(map[int]*Machine),
		tasks:    make(map[int]*SpawnTask),
	}
}

// RegisterMachine 注册一台生成器机器
func (md *Module) RegisterMachine(region string, maxProcesses int) *Machine {
	md.mu.Lock()
	defer md.mu.Unlock()

	md.nextMachineID++
	machine := &Machine{
		ID:           md.nextMachineID,
		Region:       region,
		MaxProcesses: maxProcesses,
	}
	md.machines[machine.ID] = machine

	log.Printf("🖥️ 生成器已注册: id=%d region=%s slots=%d", machine.ID, region, maxProcesses)

	return machine
}

// Spawn 请求生成一个游戏服务器进程
// 在指定区域内挑选负载最低的机器；没有可用机器时返回 nil（即拒绝）
func (md *Module) Spawn(properties map[string]string, region string, options map[string]string) *SpawnTask {
	md.mu.Lock()
	defer md.mu.Unlock()

	machine := md.pickMachine(region)
	if machine == nil {
		return nil
	}

	machine.takeSlot()

	md.nextTaskID++
	task := newSpawnTask(md.nextTaskID, machine, properties, region, options)
	md.tasks[task.id] = task

	log.Printf("🚀 生成任务已创建: task=%d machine=%d region=%s", task.id, machine.ID, region)

	return task
}

// pickMachine 挑选区域内负载最低的可用机器
// region 为空时不限区域
func (md *Module) pickMachine(region string) *Machine {
	var best *Machine
	for _, m := range md.machines {
		if region != "" && m.Region != region {
			continue
		}
		if !m.canSpawn() {
			continue
		}
		if best == nil || m.ProcessCount() < best.ProcessCount() ||
			(m.ProcessCount() == best.ProcessCount() && m.ID < best.ID) {
			best = m
		}
	}
	return best
}

// GetTask 按 ID 获取任务（生成器控制面驱动状态时使用）
func (md *Module) GetTask(id int) *SpawnTask {
	md.mu.RLock()
	defer md.mu.RUnlock()
	return md.tasks[id]
}
