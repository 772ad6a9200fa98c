// internal/seed/seed.go
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/services"
)

type categorySeed struct {
	Name        string
	Description string
}

type manufacturerSeed struct {
	Name        string
	ContactInfo string
	Address     string
}

type medicineSeed struct {
	Name     string
	Category string
	Form     string
	MinPrice int64
	MaxPrice int64
}

var categories = []categorySeed{
	{"Tablets", "Solid dosage forms"},
	{"Capsules", "Encapsulated medicines"},
	{"Syrups", "Liquid medicines"},
	{"Injections", "Injectable medicines"},
	{"Ointments", "Topical applications"},
	{"Drops", "Eye and ear drops"},
	{"Inhalers", "Respiratory medicines"},
	{"Powders", "Powder formulations"},
}

var manufacturers = []manufacturerSeed{
	{"Cipla Limited", "+91-22-2482-6000", "Cipla House, Peninsula Business Park, Mumbai, India"},
	{"Sun Pharmaceutical", "+91-22-4324-4324", "Sun House, 201 B/1, Western Express Highway, Mumbai, India"},
	{"Dr. Reddy's Laboratories", "+91-40-4900-2900", "8-2-337, Road No. 3, Banjara Hills, Hyderabad, India"},
	{"Lupin Pharmaceuticals", "+91-22-6640-2323", "Kalina, Santacruz East, Mumbai, India"},
	{"Aurobindo Pharma", "+91-40-6672-5000", "Galaxy, Pragati Maidan, Hyderabad, India"},
	{"Cadila Healthcare", "+91-79-2665-9999", "Zydus Tower, Satellite Cross Roads, Ahmedabad, India"},
	{"Glenmark Pharmaceuticals", "+91-22-4018-9999", "B/2, Mahalaxmi Chambers, Mumbai, India"},
	{"Torrent Pharmaceuticals", "+91-79-2665-3000", "Torrent House, Off Ashram Road, Ahmedabad, India"},
}

var medicines = []medicineSeed{
	{"Paracetamol 500mg", "Tablets", "Tablet", 15, 25},
	{"Aspirin 75mg", "Tablets", "Tablet", 20, 30},
	{"Ibuprofen 400mg", "Tablets", "Tablet", 25, 35},
	{"Amoxicillin 500mg", "Capsules", "Capsule", 80, 120},
	{"Cetirizine 10mg", "Tablets", "Tablet", 40, 60},
	{"Cough Syrup", "Syrups", "Syrup", 60, 90},
	{"Multivitamin Syrup", "Syrups", "Syrup", 150, 200},
	{"Insulin Injection", "Injections", "Injection", 300, 500},
	{"Betadine Ointment", "Ointments", "Ointment", 45, 65},
	{"Eye Drops", "Drops", "Drops", 80, 120},
	{"Salbutamol Inhaler", "Inhalers", "Inhaler", 200, 300},
	{"Omeprazole 20mg", "Capsules", "Capsule", 50, 80},
	{"Metformin 500mg", "Tablets", "Tablet", 30, 50},
	{"Atorvastatin 10mg", "Tablets", "Tablet", 100, 150},
	{"Amlodipine 5mg", "Tablets", "Tablet", 35, 55},
	{"Azithromycin 250mg", "Tablets", "Tablet", 150, 200},
	{"Diclofenac Gel", "Ointments", "Gel", 70, 100},
	{"Loratadine 10mg", "Tablets", "Tablet", 45, 70},
	{"Vitamin D3 Powder", "Powders", "Powder", 120, 180},
	{"Iron Tablets", "Tablets", "Tablet", 25, 40},
}

// Summary counts the rows a run created.
type Summary struct {
	Categories    int
	Manufacturers int
	Medicines     int
}

// Seeder loads demo inventory. Runs are idempotent: existing names and
// batch numbers are left alone.
type Seeder struct {
	store    *repository.Store
	medicine *services.MedicineService
	clock    services.Clock
	rng      *rand.Rand
}

func NewSeeder(store *repository.Store, medicineService *services.MedicineService, clock services.Clock, randomSeed int64) *Seeder {
	if clock == nil {
		clock = services.SystemClock
	}
	return &Seeder{
		store:    store,
		medicine: medicineService,
		clock:    clock,
		rng:      rand.New(rand.NewSource(randomSeed)),
	}
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		id, created, err := s.ensureCategory(ctx, c)
		if err != nil {
			return summary, err
		}
		categoryIDs[c.Name] = id
		if created {
			summary.Categories++
		}
	}

	manufacturerIDs := make([]uint, 0, len(manufacturers))
	for _, m := range manufacturers {
		id, created, err := s.ensureManufacturer(ctx, m)
		if err != nil {
			return summary, err
		}
		manufacturerIDs = append(manufacturerIDs, id)
		if created {
			summary.Manufacturers++
		}
	}

	today := s.clock.Today()
	for i, m := range medicines {
		batchNumber := fmt.Sprintf("B%d%03d", today.Year(), i+1)
		taken, err := s.store.Medicines.BatchNumberTaken(ctx, batchNumber, 0)
		if err != nil {
			return summary, fmt.Errorf("check batch %s: %w", batchNumber, err)
		}
		if taken {
			continue
		}

		price := s.price(m.MinPrice, m.MaxPrice)
		cost := price.Mul(decimal.NewFromFloat(0.70 + s.rng.Float64()*0.15)).Round(2)
		quantity := 10 + s.rng.Intn(491)
		purchase := today.AddDays(-s.rng.Intn(60))
		expiry := today.AddDays(90 + s.rng.Intn(630))

		_, err = s.medicine.CreateMedicine(ctx, &services.CreateMedicineRequest{
			Name:           m.Name,
			BatchNumber:    batchNumber,
			CostPrice:      &cost,
			SellingPrice:   &price,
			Quantity:       &quantity,
			Form:           m.Form,
			ManufacturerID: manufacturerIDs[s.rng.Intn(len(manufacturerIDs))],
			CategoryID:     categoryIDs[m.Category],
			PurchaseDate:   &purchase,
			ExpiryDate:     &expiry,
		})
		if err != nil {
			return summary, fmt.Errorf("create %s: %w", m.Name, err)
		}
		summary.Medicines++
	}

	logrus.WithFields(logrus.Fields{
		"categories":    summary.Categories,
		"manufacturers": summary.Manufacturers,
		"medicines":     summary.Medicines,
	}).Info("Seed data loaded")

	return summary, nil
}

// Clear removes every medicine, then the catalog entries they referenced.
func (s *Seeder) Clear(ctx context.Context) error {
	all, err := s.store.Medicines.All(ctx, repository.MedicineFilter{})
	if err != nil {
		return fmt.Errorf("load medicines: %w", err)
	}
	for _, m := range all {
		if err := s.store.Medicines.Delete(ctx, m.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete medicine %d: %w", m.ID, err)
		}
	}

	cats, err := s.store.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	for _, c := range cats {
		if err := s.store.Categories.Delete(ctx, c.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete category %d: %w", c.ID, err)
		}
	}

	mfrs, err := s.store.Manufacturers.List(ctx)
	if err != nil {
		return fmt.Errorf("load manufacturers: %w", err)
	}
	for _, m := range mfrs {
		if err := s.store.Manufacturers.Delete(ctx, m.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("delete manufacturer %d: %w", m.ID, err)
		}
	}

	logrus.Info("Inventory cleared")
	return nil
}

func (s *Seeder) price(lo, hi int64) decimal.Decimal {
	cents := lo*100 + s.rng.Int63n((hi-lo)*100+1)
	return decimal.New(cents, -2)
}

func (s *Seeder) ensureCategory(ctx context.Context, c categorySeed) (uint, bool, error) {
	existing, err := s.store.Categories.FindByName(ctx, c.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, false, fmt.Errorf("find category %s: %w", c.Name, err)
	}

	category := &models.MedicineCategory{Name: c.Name, Description: c.Description}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return 0, false, fmt.Errorf("create category %s: %w", c.Name, err)
	}
	return category.ID, true, nil
}

func (s *Seeder) ensureManufacturer(ctx context.Context, m manufacturerSeed) (uint, bool, error) {
	existing, err := s.store.Manufacturers.FindByName(ctx, m.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return 0, false, fmt.Errorf("find manufacturer %s: %w", m.Name, err)
	}

	manufacturer := &models.Manufacturer{Name: m.Name, ContactInfo: m.ContactInfo, Address: m.Address}
	if err := s.store.Manufacturers.Create(ctx, manufacturer); err != nil {
		return 0, false, fmt.Errorf("create manufacturer %s: %w", m.Name, err)
	}
	return manufacturer.ID, true, nil
}
