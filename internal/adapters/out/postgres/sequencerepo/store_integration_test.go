package sequencerepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"backoffice/internal/adapters/out/postgres/sequencerepo"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type SequenceStoreIntegrationTestSuite struct {
	suite.Suite
	database *testDatabase
	store    *sequencerepo.GormSequenceStore
}

func TestSequenceStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	suite.Run(t, new(SequenceStoreIntegrationTestSuite))
}

func (suite *SequenceStoreIntegrationTestSuite) SetupSuite() {
	database, err := startTestDatabase(context.Background(), &sequencerepo.DaySequenceDTO{})
	suite.Require().NoError(err)
	suite.database = database
}

func (suite *SequenceStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate("day_sequences"))
	suite.store = sequencerepo.NewGormSequenceStore(suite.database.DB, 5)
}

func (suite *SequenceStoreIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.database.Terminate(context.Background()))
}

func (suite *SequenceStoreIntegrationTestSuite) TestNext_StartsAtOneAndIncrements() {
	ctx := suite.T().Context()
	kitchenID := kernel.NewUUID()
	day := suite.day(1)

	for want := int64(1); want <= 3; want++ {
		got, err := suite.store.Next(ctx, kitchenID, day)
		suite.Require().NoError(err)
		suite.Equal(want, got)
	}
}

func (suite *SequenceStoreIntegrationTestSuite) TestNext_KeysAreIndependent() {
	ctx := suite.T().Context()
	kitchenA, kitchenB := kernel.NewUUID(), kernel.NewUUID()

	_, err := suite.store.Next(ctx, kitchenA, suite.day(1))
	suite.Require().NoError(err)
	_, err = suite.store.Next(ctx, kitchenA, suite.day(1))
	suite.Require().NoError(err)

	otherKitchen, err := suite.store.Next(ctx, kitchenB, suite.day(1))
	suite.Require().NoError(err)
	nextDay, err := suite.store.Next(ctx, kitchenA, suite.day(2))
	suite.Require().NoError(err)

	suite.Equal(int64(1), otherKitchen)
	suite.Equal(int64(1), nextDay)
}

func (suite *SequenceStoreIntegrationTestSuite) TestNext_ConcurrentCallersGetDistinctValues() {
	ctx := suite.T().Context()
	kitchenID := kernel.NewUUID()
	day := suite.day(1)

	const callers = 50
	values := make(chan int64, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := suite.store.Next(ctx, kitchenID, day)
			suite.NoError(err)
			values <- v
		}()
	}
	wg.Wait()
	close(values)

	seen := make(map[int64]bool, callers)
	for v := range values {
		suite.False(seen[v], "value %d handed out twice", v)
		seen[v] = true
	}
	suite.Len(seen, callers)
	for v := int64(1); v <= callers; v++ {
		suite.True(seen[v], "missing value %d", v)
	}
}

func (suite *SequenceStoreIntegrationTestSuite) TestNext_IsNotUndoneByCallerRollback() {
	ctx := suite.T().Context()
	kitchenID := kernel.NewUUID()
	day := suite.day(1)

	tx := suite.database.DB.Begin()
	first, err := suite.store.Next(ctx, kitchenID, day)
	suite.Require().NoError(err)
	suite.Require().NoError(tx.Rollback().Error)

	second, err := suite.store.Next(ctx, kitchenID, day)
	suite.Require().NoError(err)
	suite.Equal(first+1, second)
}

func (suite *SequenceStoreIntegrationTestSuite) TestNext_UnavailableStore_IsExhausted() {
	ctx, cancel := context.WithCancel(suite.T().Context())
	cancel()

	_, err := suite.store.Next(ctx, kernel.NewUUID(), suite.day(1))

	suite.Require().ErrorIs(err, errs.ErrSequenceExhausted)
	var exhausted *errs.SequenceExhaustedError
	suite.Require().ErrorAs(err, &exhausted)
	suite.Equal(1, exhausted.Attempts)
}

func (suite *SequenceStoreIntegrationTestSuite) day(d int) kernel.Date {
	day, err := kernel.NewDate(2024, time.May, d)
	suite.Require().NoError(err)
	return day
}
