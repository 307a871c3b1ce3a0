package services

import (
	"context"
	"sync"
	"testing"

	"github.com/mdAli87/ISF-admin/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Trainer{},
		&models.TrainingEvent{},
		&models.Document{},
		&models.DeviceToken{},
		&models.Notification{},
		&models.Alert{},
	))
	return db
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// fakeProvider records every send and fails for the emails it is told to.
type fakeProvider struct {
	mu      sync.Mutex
	calls   []SendRequest
	failFor map[string]error
	block   bool // when set, Send blocks until the context is done
}

func (f *fakeProvider) Send(ctx context.Context, req SendRequest) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.failFor != nil {
		if err, ok := f.failFor[req.User.Email]; ok {
			return err
		}
	}
	return nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
