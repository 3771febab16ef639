package scheduler

import (
	"context"
	"time"

	"github.com/create141/Create-fi/internal/service"
	"github.com/create141/Create-fi/pkg/logger"

	"github.com/robfig/cron/v3"
)

// 默认每分钟整点扫描一次
const defaultSweepCron = "0 * * * * *"

type OrderScheduler struct {
	cron     *cron.Cron
	orderSvc *service.OrderService
	cronExpr string
}

func NewOrderScheduler(orderSvc *service.OrderService, cronExpr string) *OrderScheduler {
	if cronExpr == "" {
		cronExpr = defaultSweepCron
	}
	return &OrderScheduler{
		cron:     cron.New(cron.WithSeconds()),
		orderSvc: orderSvc,
		cronExpr: cronExpr,
	}
}

func (s *OrderScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronExpr, s.sweepExpiredOrders)
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("Order expiry scheduler started")
	return nil
}

func (s *OrderScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Order expiry scheduler stopped")
}

func (s *OrderScheduler) sweepExpiredOrders() {
	ctx := context.Background()

	swept, err := s.orderSvc.SweepExpired(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to sweep expired orders:", err)
		return
	}

	if swept > 0 {
		logger.WithFields(map[string]interface{}{
			"orders_swept": swept,
		}).Info("Expired limit orders swept")
	}
}
