package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"papertrade/biz/dal/pg"
	"papertrade/biz/model"
)

func TestMain(m *testing.M) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		panic("sqlite init failed: " + err.Error())
	}
	pg.GormDB = db
	if err := pg.AutoMigrate(); err != nil {
		panic("auto migrate failed: " + err.Error())
	}
	os.Exit(m.Run())
}

var testUserSeq uint64

func newTestUser(t *testing.T, balance float64) *model.User {
	t.Helper()
	testUserSeq++
	user := &model.User{
		Name:         fmt.Sprintf("trader-%d", testUserSeq),
		Email:        fmt.Sprintf("trader-%d@example.com", testUserSeq),
		PasswordHash: "x",
		Balance:      balance,
		CreatedAt:    time.Now().UnixMilli(),
	}
	require.NoError(t, pg.CreateUser(user))
	return user
}

func buy(t *testing.T, userID uint64, symbol string, qty, price float64) *ExecutionResult {
	t.Helper()
	res, err := ExecuteOrder(context.Background(), OrderRequest{
		UserID: userID, Symbol: symbol, Quantity: qty, Price: price,
		Side: model.SideBuy, AssetClass: model.AssetEquity,
	})
	require.NoError(t, err)
	return res
}

func sell(t *testing.T, userID uint64, symbol string, qty, price float64) *ExecutionResult {
	t.Helper()
	res, err := ExecuteOrder(context.Background(), OrderRequest{
		UserID: userID, Symbol: symbol, Quantity: qty, Price: price,
		Side: model.SideSell, AssetClass: model.AssetEquity,
	})
	require.NoError(t, err)
	return res
}

func TestBuyIntoEmptyPosition(t *testing.T) {
	user := newTestUser(t, 100000.0)

	res := buy(t, user.ID, "AAPL", 10, 150.0)
	assert.InDelta(t, -1500.0, res.BalanceDelta, 1e-9)
	assert.InDelta(t, 98500.0, res.NewBalance, 1e-9)

	pos, err := GetPosition(user.ID, "AAPL", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 10.0, pos.Quantity, 1e-9)
	// 首次买入，成本均价就是成交价
	assert.Equal(t, 150.0, pos.AvgCost)

	txs, err := ListTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, model.SideBuy, txs[0].Side)
	assert.InDelta(t, 10.0, txs[0].Quantity, 1e-9)
	assert.InDelta(t, 150.0, txs[0].Price, 1e-9)
}

func TestBuyAccumulatesVolumeWeightedCost(t *testing.T) {
	user := newTestUser(t, 100000.0)

	buy(t, user.ID, "AAPL", 10, 150.0)
	res := buy(t, user.ID, "AAPL", 5, 180.0)
	assert.InDelta(t, 97600.0, res.NewBalance, 1e-9)

	pos, err := GetPosition(user.ID, "AAPL", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 15.0, pos.Quantity, 1e-9)
	assert.InDelta(t, 160.0, pos.AvgCost, 1e-9) // (10*150 + 5*180) / 15
}

func TestSellKeepsAvgCost(t *testing.T) {
	user := newTestUser(t, 100000.0)

	buy(t, user.ID, "MSFT", 10, 100.0)
	buy(t, user.ID, "MSFT", 10, 200.0)
	res := sell(t, user.ID, "MSFT", 5, 300.0)
	assert.InDelta(t, 1500.0, res.BalanceDelta, 1e-9)

	pos, err := GetPosition(user.ID, "MSFT", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 15.0, pos.Quantity, 1e-9)
	// 卖出不改变剩余持仓的成本均价
	assert.InDelta(t, 150.0, pos.AvgCost, 1e-9)
}

func TestSellExhaustsPosition(t *testing.T) {
	user := newTestUser(t, 100000.0)

	buy(t, user.ID, "AAPL", 10, 150.0)
	buy(t, user.ID, "AAPL", 5, 180.0)
	res := sell(t, user.ID, "AAPL", 15, 200.0)
	assert.InDelta(t, 100600.0, res.NewBalance, 1e-9)
	assert.Nil(t, res.Position)

	// 清仓后行被删除，而不是保留数量为0的行
	pos, err := GetPosition(user.ID, "AAPL", model.AssetEquity)
	require.NoError(t, err)
	assert.Nil(t, pos)

	txs, err := ListTransactions(user.ID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, model.SideSell, txs[0].Side)
	assert.InDelta(t, 15.0, txs[0].Quantity, 1e-9)
	assert.InDelta(t, 200.0, txs[0].Price, 1e-9)
}

func TestSellWithoutPosition(t *testing.T) {
	user := newTestUser(t, 100000.0)

	_, err := ExecuteOrder(context.Background(), OrderRequest{
		UserID: user.ID, Symbol: "TSLA", Quantity: 1, Price: 100.0,
		Side: model.SideSell, AssetClass: model.AssetEquity,
	})
	assert.ErrorIs(t, err, ErrInsufficientHoldings)

	// 失败的卖单不留任何痕迹
	fresh, err := pg.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100000.0, fresh.Balance, 1e-9)

	n, err := pg.CountTransactions(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestSellMoreThanHeld(t *testing.T) {
	user := newTestUser(t, 100000.0)

	buy(t, user.ID, "NVDA", 3, 500.0)
	_, err := ExecuteOrder(context.Background(), OrderRequest{
		UserID: user.ID, Symbol: "NVDA", Quantity: 4, Price: 500.0,
		Side: model.SideSell, AssetClass: model.AssetEquity,
	})
	assert.ErrorIs(t, err, ErrInsufficientHoldings)

	pos, err := GetPosition(user.ID, "NVDA", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 3.0, pos.Quantity, 1e-9)

	n, err := pg.CountTransactions(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnginePermitsNegativeBalance(t *testing.T) {
	// 可负担性由调用方校验，引擎本身允许余额变负
	user := newTestUser(t, 100.0)

	res := buy(t, user.ID, "AAPL", 10, 150.0)
	assert.InDelta(t, -1400.0, res.NewBalance, 1e-9)
}

func TestOrderPreconditions(t *testing.T) {
	user := newTestUser(t, 100000.0)

	cases := []OrderRequest{
		{UserID: user.ID, Symbol: "", Quantity: 1, Price: 1, Side: model.SideBuy, AssetClass: model.AssetEquity},
		{UserID: user.ID, Symbol: "AAPL", Quantity: 0, Price: 1, Side: model.SideBuy, AssetClass: model.AssetEquity},
		{UserID: user.ID, Symbol: "AAPL", Quantity: -1, Price: 1, Side: model.SideBuy, AssetClass: model.AssetEquity},
		{UserID: user.ID, Symbol: "AAPL", Quantity: 1, Price: 0, Side: model.SideBuy, AssetClass: model.AssetEquity},
		{UserID: user.ID, Symbol: "AAPL", Quantity: 1, Price: 1, Side: "HOLD", AssetClass: model.AssetEquity},
		{UserID: user.ID, Symbol: "AAPL", Quantity: 1, Price: 1, Side: model.SideBuy, AssetClass: "FUTURES"},
	}
	for _, req := range cases {
		_, err := ExecuteOrder(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidOrder)
	}

	n, err := pg.CountTransactions(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestAssetClassesAreIndependent(t *testing.T) {
	user := newTestUser(t, 100000.0)

	// 同一个 symbol 在两个资产类别下互不串仓
	buy(t, user.ID, "SOL", 10, 50.0)
	_, err := ExecuteOrder(context.Background(), OrderRequest{
		UserID: user.ID, Symbol: "SOL", Quantity: 2.5, Price: 60.0,
		Side: model.SideBuy, AssetClass: model.AssetCrypto,
	})
	require.NoError(t, err)

	equity, err := GetPosition(user.ID, "SOL", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, equity)
	assert.InDelta(t, 10.0, equity.Quantity, 1e-9)

	crypto, err := GetPosition(user.ID, "SOL", model.AssetCrypto)
	require.NoError(t, err)
	require.NotNil(t, crypto)
	assert.InDelta(t, 2.5, crypto.Quantity, 1e-9)
	assert.InDelta(t, 60.0, crypto.AvgCost, 1e-9)

	// 卖光 crypto 不影响 equity
	_, err = ExecuteOrder(context.Background(), OrderRequest{
		UserID: user.ID, Symbol: "SOL", Quantity: 2.5, Price: 70.0,
		Side: model.SideSell, AssetClass: model.AssetCrypto,
	})
	require.NoError(t, err)

	crypto, err = GetPosition(user.ID, "SOL", model.AssetCrypto)
	require.NoError(t, err)
	assert.Nil(t, crypto)

	equity, err = GetPosition(user.ID, "SOL", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, equity)
}

func TestRepeatedBuysSumQuantities(t *testing.T) {
	user := newTestUser(t, 100000.0)

	for i := 0; i < 10; i++ {
		buy(t, user.ID, "AMD", 0.1, 80.0)
	}
	pos, err := GetPosition(user.ID, "AMD", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 1.0, pos.Quantity, 1e-9)
	assert.InDelta(t, 80.0, pos.AvgCost, 1e-9)
}

func TestTransactionOrdering(t *testing.T) {
	user := newTestUser(t, 100000.0)

	buy(t, user.ID, "META", 1, 300.0)
	buy(t, user.ID, "META", 1, 310.0)
	sell(t, user.ID, "META", 1, 320.0)

	txs, err := pg.ListTransactionsBySymbolAndTime(user.ID, "META",
		time.UnixMilli(0), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, txs, 3)
	for i := 1; i < len(txs); i++ {
		assert.GreaterOrEqual(t, txs[i].Timestamp, txs[i-1].Timestamp)
	}
	assert.Equal(t, model.SideBuy, txs[0].Side)
	assert.Equal(t, model.SideSell, txs[2].Side)
}

func TestConcurrentOrdersSameUser(t *testing.T) {
	user := newTestUser(t, 100000.0)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ExecuteOrder(context.Background(), OrderRequest{
				UserID: user.ID, Symbol: "GOOG", Quantity: 1, Price: 100.0,
				Side: model.SideBuy, AssetClass: model.AssetEquity,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	pos, err := GetPosition(user.ID, "GOOG", model.AssetEquity)
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.InDelta(t, 10.0, pos.Quantity, 1e-9)

	fresh, err := pg.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.InDelta(t, 99000.0, fresh.Balance, 1e-9)
}
