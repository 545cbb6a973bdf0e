package telemetry

// Listener 路口状态变化的监听器
// 功能：接收协调器发布的可观测事件
// 说明：OnEvent在协调锁内被调用以保证事件顺序与状态变化严格一致，
// 实现方必须快速返回且不得回调路口协调器，否则会阻塞或死锁整个协议
type Listener interface {
	OnEvent(e Event)
}

// Listeners 监听器集合
// 功能：将事件扇出到所有已注册的监听器
// 说明：注册只发生在接线阶段，运行期只读，无需加锁；nil集合安全可用
type Listeners struct {
	listeners []Listener
}

// NewListeners 创建监听器集合
func NewListeners(ls ...Listener) *Listeners {
	return &Listeners{listeners: ls}
}

// Add 注册监听器
// 说明：仅允许在仿真启动前调用
func (l *Listeners) Add(listener Listener) {
	l.listeners = append(l.listeners, listener)
}

// Emit 发布事件到所有监听器
func (l *Listeners) Emit(e Event) {
	if l == nil {
		return
	}
	for _, listener := range l.listeners {
		listener.OnEvent(e)
	}
}

// LogListener 日志监听器
// 功能：把每个事件以结构化日志形式输出
type LogListener struct{}

// NewLogListener 创建日志监听器
func NewLogListener() *LogListener {
	return &LogListener{}
}

// OnEvent 输出事件日志
func (l *LogListener) OnEvent(e Event) {
	entry := log.WithField("event", string(e.Type))
	switch e.Type {
	case EventFlowOpened:
		if e.Priority {
			entry.Infof("flow opened for %s (priority)", e.Axis)
		} else {
			entry.Infof("flow opened for %s, up to %d units", e.Axis, e.Duration)
		}
	case EventFlowClosed:
		entry.Infof("flow closed for %s (%s)", e.Axis, e.Reason)
	case EventEmergencyStarted:
		entry.Warnf("emergency started from %s", e.Direction)
	case EventEmergencyEnded:
		entry.Warnf("emergency ended at %s", e.Direction)
	default:
		entry.Debugf("%s %s (%s)", e.Kind, e.Type, e.Direction)
	}
}
