package async

import (
	"runtime/debug"
	"sync"
	"time"

	"morse-mastery/config"
	"morse-mastery/pkg/logger"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	global   *ants.Pool
	globalMu sync.Mutex
)

// Init 初始化全局协程池（仅需在进程启动时调用一次）
func Init(cfg config.AsyncConfig) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global != nil {
		return nil
	}

	p, err := ants.NewPool(cfg.PoolSize, ants.WithPanicHandler(func(p any) {
		logger.Error("async task panic",
			zap.Any("panic", p),
			zap.String("stack", string(debug.Stack())),
		)
	}))
	if err != nil {
		return err
	}

	global = p
	return nil
}

// Submit 将任务投递到全局协程池
// 协程池未初始化时退化为直接起goroutine，保证任务不丢
func Submit(task func()) {
	if task == nil {
		return
	}

	globalMu.Lock()
	p := global
	globalMu.Unlock()

	if p == nil {
		go runSafe(task)
		return
	}
	if err := p.Submit(func() { runSafe(task) }); err != nil {
		logger.Error("async submit failed", zap.Error(err))
	}
}

// SubmitAfter 延迟执行任务（机器人回复的人性化延迟等场景）
func SubmitAfter(delay time.Duration, task func()) {
	Submit(func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		task()
	})
}

// Release 优雅释放协程池资源（等待任务执行完）
func Release() {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return
	}
	global.Release()
	global = nil
}

func runSafe(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("async task panic",
				zap.Any("panic", r),
				zap.String("stack", string(debug.Stack())),
			)
		}
	}()
	task()
}
