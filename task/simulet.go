package task

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	SelfName = "crossing" // 本程序在模拟任务中的名字
)

var (
	heartBeatInterval = flag.Float64("log.heartbeat_interval", 10, "心跳日志间隔（时间单位）")
)

// heartbeat 心跳日志
// 功能：周期性输出仿真时间与路口状态概要
func (ctx *Context) heartbeat() {
	s := ctx.crossing.Snapshot()
	hour, minute, second := ctx.clock.GetHourMinuteSecond()
	log.Infof(
		"T: %02d:%02d:%05.2f flow=%v state=%v emergency=%v crossing=%d/%d waiting=%v/%v",
		hour, minute, second,
		s.CurrentFlow, ctx.controller.State(), s.EmergencyActive,
		s.CrossingOrdinary, s.CrossingPriority,
		s.WaitingOrdinary, s.WaitingPriority,
	)
}

// Run 运行仿真任务
// 功能：启动控制器、车辆代理与活性监视器，阻塞至仿真结束
// 算法说明：
// 1. 启动控制器协程、全部车辆协程与监视器协程
// 2. 主协程按心跳间隔输出状态概要
// 3. 结束条件三选一：配置的总时长耗尽、收到SIGINT/SIGTERM、外部Close
// 4. 结束时统一走Close：停机、回收协程、释放输出
func (ctx *Context) Run() {
	log.Infof("job %s starting: %d vehicle(s)", ctx.job, ctx.vehicleManager.Count())

	go ctx.controller.Run()
	ctx.vehicleManager.Start()
	go ctx.watchdog.Run()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var deadline <-chan time.Time
	if total := ctx.runtimeConfig.C.Total; total > 0 {
		timer := time.NewTimer(ctx.clock.Duration(total))
		defer timer.Stop()
		deadline = timer.C
	}

	ticker := time.NewTicker(ctx.clock.Duration(*heartBeatInterval))
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			ctx.heartbeat()
		case <-deadline:
			log.Infof("job %s: total simulation time reached", ctx.job)
			ctx.Close()
			return
		case sig := <-sigCh:
			log.Infof("job %s: received %v, shutting down", ctx.job, sig)
			ctx.Close()
			return
		case <-ctx.crossing.Done():
			ctx.Close()
			return
		}
	}
}
