// internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/repository"
)

type InventoryService struct {
	store     *repository.Store
	inventory config.InventoryConfig
	clock     Clock
	archiver  ReportArchiver
}

type AlertGroup struct {
	Count     int                       `json:"count"`
	Medicines []models.MedicineResponse `json:"medicines"`
}

// Alerts groups medicines needing attention. A medicine can sit in several groups.
type Alerts struct {
	Expired      AlertGroup `json:"expired"`
	ExpiringSoon AlertGroup `json:"expiring_soon"`
	LowStock     AlertGroup `json:"low_stock"`
}

type CategoryRollup struct {
	Name          string        `json:"name"`
	MedicineCount int           `json:"medicine_count"`
	TotalQuantity int           `json:"total_quantity"`
	TotalValue    models.Amount `json:"total_value"`
}

type ManufacturerRollup struct {
	Name          string `json:"name"`
	MedicineCount int    `json:"medicine_count"`
	TotalQuantity int    `json:"total_quantity"`
}

type InventoryReport struct {
	TotalMedicines      int                  `json:"total_medicines"`
	TotalInventoryValue models.Amount        `json:"total_inventory_value"`
	TotalCostValue      models.Amount        `json:"total_cost_value"`
	PotentialProfit     models.Amount        `json:"potential_profit"`
	ByCategory          []CategoryRollup     `json:"by_category"`
	ByManufacturer      []ManufacturerRollup `json:"by_manufacturer"`
	GeneratedAt         string               `json:"generated_at,omitempty"`
}

type Stats struct {
	TotalMedicines     int64 `json:"total_medicines"`
	TotalCategories    int64 `json:"total_categories"`
	TotalManufacturers int64 `json:"total_manufacturers"`
	LowStockItems      int64 `json:"low_stock_items"`
	ExpiredItems       int64 `json:"expired_items"`
	ExpiringSoonItems  int64 `json:"expiring_soon_items"`
}

func NewInventoryService(store *repository.Store, inventory config.InventoryConfig, clock Clock, archiver ReportArchiver) *InventoryService {
	if inventory.ExpiringSoonDays <= 0 {
		inventory.ExpiringSoonDays = models.ExpiringSoonDays
	}
	if clock == nil {
		clock = SystemClock
	}
	return &InventoryService{
		store:     store,
		inventory: inventory,
		clock:     clock,
		archiver:  archiver,
	}
}

// BuildAlerts partitions medicines into the expired, expiring soon and low
// stock groups as of today.
func BuildAlerts(medicines []models.Medicine, today models.Date, expiringSoonDays int) Alerts {
	var expired, expiring, lowStock []models.Medicine
	for _, m := range medicines {
		if m.IsExpired(today) {
			expired = append(expired, m)
		}
		if m.IsExpiringSoon(today, expiringSoonDays) {
			expiring = append(expiring, m)
		}
		if m.IsLowStock() {
			lowStock = append(lowStock, m)
		}
	}

	group := func(ms []models.Medicine) AlertGroup {
		return AlertGroup{
			Count:     len(ms),
			Medicines: models.NewMedicineResponses(ms, today, expiringSoonDays),
		}
	}

	return Alerts{
		Expired:      group(expired),
		ExpiringSoon: group(expiring),
		LowStock:     group(lowStock),
	}
}

// BuildInventoryReport totals value and cost over medicines and rolls them up
// by category and manufacturer name. Names with no medicines do not appear.
func BuildInventoryReport(medicines []models.Medicine) InventoryReport {
	inventoryValue := decimal.Zero
	costValue := decimal.Zero

	type categoryTotals struct {
		count    int
		quantity int
		value    decimal.Decimal
	}
	categories := make(map[string]*categoryTotals)
	manufacturers := make(map[string]*ManufacturerRollup)

	for i := range medicines {
		m := &medicines[i]
		value := m.InventoryValue()
		inventoryValue = inventoryValue.Add(value)
		if cost, ok := m.CostValue(); ok {
			costValue = costValue.Add(cost)
		}

		if m.Category != nil {
			totals, ok := categories[m.Category.Name]
			if !ok {
				totals = &categoryTotals{value: decimal.Zero}
				categories[m.Category.Name] = totals
			}
			totals.count++
			totals.quantity += m.Quantity
			totals.value = totals.value.Add(value)
		}

		if m.Manufacturer != nil {
			rollup, ok := manufacturers[m.Manufacturer.Name]
			if !ok {
				rollup = &ManufacturerRollup{Name: m.Manufacturer.Name}
				manufacturers[m.Manufacturer.Name] = rollup
			}
			rollup.MedicineCount++
			rollup.TotalQuantity += m.Quantity
		}
	}

	report := InventoryReport{
		TotalMedicines:      len(medicines),
		TotalInventoryValue: models.NewAmount(inventoryValue),
		TotalCostValue:      models.NewAmount(costValue),
		PotentialProfit:     models.NewAmount(inventoryValue.Sub(costValue)),
		ByCategory:          make([]CategoryRollup, 0, len(categories)),
		ByManufacturer:      make([]ManufacturerRollup, 0, len(manufacturers)),
	}

	for name, totals := range categories {
		report.ByCategory = append(report.ByCategory, CategoryRollup{
			Name:          name,
			MedicineCount: totals.count,
			TotalQuantity: totals.quantity,
			TotalValue:    models.NewAmount(totals.value),
		})
	}
	for _, rollup := range manufacturers {
		report.ByManufacturer = append(report.ByManufacturer, *rollup)
	}

	sort.Slice(report.ByCategory, func(i, j int) bool {
		return report.ByCategory[i].Name < report.ByCategory[j].Name
	})
	sort.Slice(report.ByManufacturer, func(i, j int) bool {
		return report.ByManufacturer[i].Name < report.ByManufacturer[j].Name
	})

	return report
}

func (s *InventoryService) allMedicines(ctx context.Context, today models.Date) ([]models.Medicine, error) {
	medicines, err := s.store.Medicines.All(ctx, repository.MedicineFilter{Today: today})
	if err != nil {
		return nil, apperror.Internal("load medicines", err)
	}
	return medicines, nil
}

func (s *InventoryService) GetAlerts(ctx context.Context) (*Alerts, error) {
	today := s.clock.Today()
	medicines, err := s.allMedicines(ctx, today)
	if err != nil {
		return nil, err
	}

	alerts := BuildAlerts(medicines, today, s.inventory.ExpiringSoonDays)
	return &alerts, nil
}

func (s *InventoryService) GetInventoryReport(ctx context.Context) (*InventoryReport, error) {
	medicines, err := s.allMedicines(ctx, s.clock.Today())
	if err != nil {
		return nil, err
	}

	report := BuildInventoryReport(medicines)
	report.GeneratedAt = s.clock().UTC().Format(timestampLayout)
	return &report, nil
}

func (s *InventoryService) GetStats(ctx context.Context) (*Stats, error) {
	today := s.clock.Today()
	base := repository.MedicineFilter{Today: today, ExpiringSoonDays: s.inventory.ExpiringSoonDays}

	var stats Stats
	var err error

	if stats.TotalMedicines, err = s.store.Medicines.Count(ctx, base); err != nil {
		return nil, apperror.Internal("count medicines", err)
	}
	if stats.TotalCategories, err = s.store.Categories.Count(ctx); err != nil {
		return nil, apperror.Internal("count categories", err)
	}
	if stats.TotalManufacturers, err = s.store.Manufacturers.Count(ctx); err != nil {
		return nil, apperror.Internal("count manufacturers", err)
	}

	lowStock := base
	lowStock.LowStock = true
	if stats.LowStockItems, err = s.store.Medicines.Count(ctx, lowStock); err != nil {
		return nil, apperror.Internal("count low stock medicines", err)
	}

	expired := base
	expired.Expired = true
	if stats.ExpiredItems, err = s.store.Medicines.Count(ctx, expired); err != nil {
		return nil, apperror.Internal("count expired medicines", err)
	}

	expiring := base
	expiring.ExpiringSoon = true
	if stats.ExpiringSoonItems, err = s.store.Medicines.Count(ctx, expiring); err != nil {
		return nil, apperror.Internal("count expiring medicines", err)
	}

	return &stats, nil
}

// ArchiveInventoryReport builds the current report and stores a copy through
// the configured archiver.
func (s *InventoryService) ArchiveInventoryReport(ctx context.Context) (*ArchiveResult, error) {
	if s.archiver == nil {
		return nil, apperror.Internal("archive inventory report", errors.New("report archive is not configured"))
	}

	report, err := s.GetInventoryReport(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.archiver.Archive(ctx, report)
	if err != nil {
		return nil, apperror.Internal("archive inventory report", err)
	}
	return result, nil
}
