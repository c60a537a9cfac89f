package repository

import (
	"time"

	"momentocake-admin/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementData is one day of aggregated inventory flow for charts.
type StockMovementData struct {
	Date     string  `json:"date"`
	Inbound  float64 `json:"inbound"`
	Outbound float64 `json:"outbound"`
}

type HistoryRepository interface {
	CreateStockEntry(tx *gorm.DB, entry *model.StockHistory) error
	CreatePriceEntry(tx *gorm.DB, entry *model.PriceHistory) error
	StockHistoryFor(ingredientID uuid.UUID) ([]model.StockHistory, error)
	PriceHistoryFor(ingredientID uuid.UUID) ([]model.PriceHistory, error)
	LatestPriceFor(ingredientID uuid.UUID) (*model.PriceHistory, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) CreateStockEntry(tx *gorm.DB, entry *model.StockHistory) error {
	return tx.Create(entry).Error
}

func (r *historyRepo) CreatePriceEntry(tx *gorm.DB, entry *model.PriceHistory) error {
	return tx.Create(entry).Error
}

func (r *historyRepo) StockHistoryFor(ingredientID uuid.UUID) ([]model.StockHistory, error) {
	var entries []model.StockHistory
	err := r.db.Where("ingredient_id = ?", ingredientID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) PriceHistoryFor(ingredientID uuid.UUID) ([]model.PriceHistory, error) {
	var entries []model.PriceHistory
	err := r.db.Preload("Supplier").
		Where("ingredient_id = ?", ingredientID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *historyRepo) LatestPriceFor(ingredientID uuid.UUID) (*model.PriceHistory, error) {
	var entry model.PriceHistory
	err := r.db.Where("ingredient_id = ?", ingredientID).
		Order("created_at DESC").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetStockMovement aggregates stock history per day. Purchases and upward
// corrections count as inbound; usage, waste and downward deltas as outbound.
func (r *historyRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockHistory{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN new_stock >= previous_stock THEN new_stock - previous_stock ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN new_stock < previous_stock THEN previous_stock - new_stock ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
