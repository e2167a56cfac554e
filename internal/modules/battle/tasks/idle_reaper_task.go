package tasks

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"monster-battle/internal/pkg/log"
)

// reapTimeout 单次回收的处理时限
const reapTimeout = 30 * time.Second

// IdleReaper 能够回收闲置对战的组件
type IdleReaper interface {
	ReapIdle(ctx context.Context, now time.Time) (int, error)
}

// IdleReaperTask 定时回收闲置对战
type IdleReaperTask struct {
	reaper   IdleReaper
	schedule string
	logger   log.Logger
	now      func() time.Time
	cron     *cron.Cron
}

// NewIdleReaperTask 创建闲置对战回收任务
// schedule 支持秒级表达式和 @every 描述符
func NewIdleReaperTask(reaper IdleReaper, schedule string, logger log.Logger) *IdleReaperTask {
	return &IdleReaperTask{
		reaper:   reaper,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start 启动定时任务
func (t *IdleReaperTask) Start() error {
	t.cron = cron.New(cron.WithSeconds())

	_, err := t.cron.AddFunc(t.schedule, t.RunOnce)
	if err != nil {
		t.logger.Error("【定时任务】添加闲置对战回收任务失败", err, "schedule", t.schedule)
		t.cron = nil
		return err
	}

	t.cron.Start()
	t.logger.Info("【定时任务】闲置对战回收已启动", "schedule", t.schedule)
	return nil
}

// RunOnce 执行一次回收
func (t *IdleReaperTask) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), reapTimeout)
	defer cancel()

	reaped, err := t.reaper.ReapIdle(ctx, t.now())
	if err != nil {
		t.logger.Error("【定时任务】闲置对战回收失败", err, "reaped_count", reaped)
		return
	}
	if reaped > 0 {
		t.logger.Info("【定时任务】闲置对战回收完成", "reaped_count", reaped)
	}
}

// Stop 停止定时任务（优雅关闭）
func (t *IdleReaperTask) Stop() {
	if t.cron != nil {
		t.logger.Info("【定时任务】正在停止闲置对战回收...")
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】闲置对战回收已停止")
	}
}
