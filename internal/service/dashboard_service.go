package service

import (
	"time"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
)

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetStockMovement(days int) ([]repository.StockMovementData, error)
}

// DashboardStats is the landing-page summary card payload.
type DashboardStats struct {
	TotalIngredients   int64   `json:"total_ingredients"`
	LowStockCount      int64   `json:"low_stock_count"`
	CriticalStockCount int64   `json:"critical_stock_count"`
	OutOfStockCount    int64   `json:"out_of_stock_count"`
	InventoryValue     float64 `json:"inventory_value"`
	TotalClients       int64   `json:"total_clients"`
	ActiveRecipes      int64   `json:"active_recipes"`
	UpcomingDatesCount int64   `json:"upcoming_dates_count"`
}

type dashboardService struct {
	ingredientRepo repository.IngredientRepository
	historyRepo    repository.HistoryRepository
	clientRepo     repository.ClientRepository
	recipeRepo     repository.RecipeRepository
	clientService  ClientService
}

func NewDashboardService(
	iRepo repository.IngredientRepository,
	hRepo repository.HistoryRepository,
	cRepo repository.ClientRepository,
	rRepo repository.RecipeRepository,
	clientService ClientService,
) DashboardService {
	return &dashboardService{
		ingredientRepo: iRepo,
		historyRepo:    hRepo,
		clientRepo:     cRepo,
		recipeRepo:     rRepo,
		clientService:  clientService,
	}
}

// GetStats walks the active inventory once, deriving the status counters
// and the stock valuation, then fills in the client and recipe totals.
func (s *dashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	ingredients, err := s.ingredientRepo.FindAll(repository.IngredientFilters{})
	if err != nil {
		return nil, err
	}
	for i := range ingredients {
		ing := &ingredients[i]
		if !ing.IsActive {
			continue
		}
		stats.TotalIngredients++
		// Value the stock at the price per measurement unit
		stats.InventoryValue += ing.CurrentStock * ing.UnitCost()

		switch ing.StockStatus() {
		case model.StockLow:
			stats.LowStockCount++
		case model.StockCritical:
			stats.CriticalStockCount++
		case model.StockOut:
			stats.OutOfStockCount++
		}
	}

	if stats.TotalClients, err = s.clientRepo.Count(); err != nil {
		return nil, err
	}
	if stats.ActiveRecipes, err = s.recipeRepo.CountActive(); err != nil {
		return nil, err
	}

	upcoming, err := s.clientService.GetUpcomingDates(30)
	if err != nil {
		return nil, err
	}
	stats.UpcomingDatesCount = int64(len(upcoming))

	return stats, nil
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.historyRepo.GetStockMovement(start, end)
}
