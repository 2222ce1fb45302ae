package repository

import "context"

// 在庫台帳（products.stock_quantity）の更新を約束。
type StockRepository interface {
	// 在庫が足りるときだけ減算。減らせたらtrue。
	// UPDATE ... WHERE stock_quantity >= ? で競合時の売り越しを防ぐ。
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)
}
