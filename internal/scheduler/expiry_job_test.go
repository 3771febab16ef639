package scheduler

import (
	"testing"

	"github.com/create141/Create-fi/internal/repository"
	"github.com/create141/Create-fi/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestOrderService(t *testing.T) *service.OrderService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	return service.NewOrderService(repository.NewOrderRepository(db), userRepo)
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewOrderScheduler(newTestOrderService(t), "")
	require.Equal(t, defaultSweepCron, s.cronExpr)

	require.NoError(t, s.Start())
	s.Stop()
}

func TestSchedulerRejectsBadCronExpr(t *testing.T) {
	s := NewOrderScheduler(newTestOrderService(t), "not a cron expr")
	require.Error(t, s.Start())
}
