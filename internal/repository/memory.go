// internal/repository/memory.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/javajoker/chemist-backend/internal/models"
)

// memoryDB is a process-local store used for local runs without Postgres.
// It enforces the same unique and reference constraints as the SQL schema.
type memoryDB struct {
	mu            sync.RWMutex
	now           func() time.Time
	medicines     map[uint]models.Medicine
	categories    map[uint]models.MedicineCategory
	manufacturers map[uint]models.Manufacturer
	nextID        map[string]uint
}

// NewMemoryStore returns repositories sharing one in-memory database.
func NewMemoryStore() *Store {
	db := &memoryDB{
		now:           time.Now,
		medicines:     make(map[uint]models.Medicine),
		categories:    make(map[uint]models.MedicineCategory),
		manufacturers: make(map[uint]models.Manufacturer),
		nextID:        make(map[string]uint),
	}
	return &Store{
		Medicines:     &memoryMedicineRepository{db: db},
		Categories:    &memoryCategoryRepository{db: db},
		Manufacturers: &memoryManufacturerRepository{db: db},
	}
}

func (db *memoryDB) allocate(table string) uint {
	db.nextID[table]++
	return db.nextID[table]
}

func (db *memoryDB) stamp(base *models.BaseModel, creating bool) {
	now := db.now().UTC()
	if creating || base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// hydrate attaches copies of the referenced category and manufacturer.
func (db *memoryDB) hydrate(m models.Medicine) models.Medicine {
	if c, ok := db.categories[m.CategoryID]; ok {
		m.Category = &c
	} else {
		m.Category = nil
	}
	if mf, ok := db.manufacturers[m.ManufacturerID]; ok {
		m.Manufacturer = &mf
	} else {
		m.Manufacturer = nil
	}
	return m
}

func (db *memoryDB) checkMedicine(m *models.Medicine) error {
	for id, existing := range db.medicines {
		if id != m.ID && existing.BatchNumber == m.BatchNumber {
			return ErrDuplicate
		}
	}
	if _, ok := db.categories[m.CategoryID]; !ok {
		return ErrReferenced
	}
	if _, ok := db.manufacturers[m.ManufacturerID]; !ok {
		return ErrReferenced
	}
	return nil
}

func sortMedicines(medicines []models.Medicine) {
	sort.SliceStable(medicines, func(i, j int) bool {
		a, b := medicines[i], medicines[j]
		if a.ExpiryDate.IsZero() != b.ExpiryDate.IsZero() {
			return b.ExpiryDate.IsZero()
		}
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		return a.ID < b.ID
	})
}

type memoryMedicineRepository struct {
	db *memoryDB
}

func (r *memoryMedicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if err := r.db.checkMedicine(medicine); err != nil {
		return err
	}

	medicine.ID = r.db.allocate("medicines")
	r.db.stamp(&medicine.BaseModel, true)
	stored := *medicine
	stored.Category, stored.Manufacturer = nil, nil
	r.db.medicines[medicine.ID] = stored
	return nil
}

func (r *memoryMedicineRepository) FindByID(ctx context.Context, id uint) (*models.Medicine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}
	hydrated := r.db.hydrate(m)
	return &hydrated, nil
}

func (r *memoryMedicineRepository) Save(ctx context.Context, medicine *models.Medicine) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.medicines[medicine.ID]; !ok {
		return ErrNotFound
	}
	if err := r.db.checkMedicine(medicine); err != nil {
		return err
	}

	r.db.stamp(&medicine.BaseModel, false)
	stored := *medicine
	stored.Category, stored.Manufacturer = nil, nil
	r.db.medicines[medicine.ID] = stored
	return nil
}

func (r *memoryMedicineRepository) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.medicines[id]; !ok {
		return ErrNotFound
	}
	delete(r.db.medicines, id)
	return nil
}

func (r *memoryMedicineRepository) filtered(filter MedicineFilter) []models.Medicine {
	matched := make([]models.Medicine, 0, len(r.db.medicines))
	for _, m := range r.db.medicines {
		if filter.Matches(&m) {
			matched = append(matched, r.db.hydrate(m))
		}
	}
	sortMedicines(matched)
	return matched
}

func (r *memoryMedicineRepository) List(ctx context.Context, filter MedicineFilter, page Page) ([]models.Medicine, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := r.filtered(filter)
	total := int64(len(matched))

	start := page.Offset()
	if start < 0 || start >= len(matched) {
		return []models.Medicine{}, total, nil
	}
	end := start + page.PerPage
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryMedicineRepository) All(ctx context.Context, filter MedicineFilter) ([]models.Medicine, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return r.filtered(filter), nil
}

func (r *memoryMedicineRepository) Count(ctx context.Context, filter MedicineFilter) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var total int64
	for _, m := range r.db.medicines {
		if filter.Matches(&m) {
			total++
		}
	}
	return total, nil
}

func (r *memoryMedicineRepository) BatchNumberTaken(ctx context.Context, batchNumber string, excludeID uint) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for id, m := range r.db.medicines {
		if id != excludeID && m.BatchNumber == batchNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryMedicineRepository) UpdateQuantity(ctx context.Context, id uint, apply func(medicine *models.Medicine) error) (*models.Medicine, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.medicines[id]
	if !ok {
		return nil, ErrNotFound
	}

	working := r.db.hydrate(stored)
	if err := apply(&working); err != nil {
		return nil, err
	}

	stored.Quantity = working.Quantity
	r.db.stamp(&stored.BaseModel, false)
	r.db.medicines[id] = stored

	result := r.db.hydrate(stored)
	return &result, nil
}

type memoryCategoryRepository struct {
	db *memoryDB
}

func (r *memoryCategoryRepository) nameTaken(name string, excludeID uint) bool {
	for id, c := range r.db.categories {
		if id != excludeID && c.Name == name {
			return true
		}
	}
	return false
}

func (r *memoryCategoryRepository) Create(ctx context.Context, category *models.MedicineCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.nameTaken(category.Name, 0) {
		return ErrDuplicate
	}
	category.ID = r.db.allocate("medicine_categories")
	r.db.stamp(&category.BaseModel, true)
	r.db.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) FindByID(ctx context.Context, id uint) (*models.MedicineCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryCategoryRepository) FindByName(ctx context.Context, name string) (*models.MedicineCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.categories {
		if c.Name == name {
			found := c
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryCategoryRepository) Save(ctx context.Context, category *models.MedicineCategory) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[category.ID]; !ok {
		return ErrNotFound
	}
	if r.nameTaken(category.Name, category.ID) {
		return ErrDuplicate
	}
	r.db.stamp(&category.BaseModel, false)
	r.db.categories[category.ID] = *category
	return nil
}

func (r *memoryCategoryRepository) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.categories[id]; !ok {
		return ErrNotFound
	}
	for _, m := range r.db.medicines {
		if m.CategoryID == id {
			return ErrReferenced
		}
	}
	delete(r.db.categories, id)
	return nil
}

func (r *memoryCategoryRepository) List(ctx context.Context) ([]models.MedicineCategory, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	categories := make([]models.MedicineCategory, 0, len(r.db.categories))
	for _, c := range r.db.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r *memoryCategoryRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return int64(len(r.db.categories)), nil
}

type memoryManufacturerRepository struct {
	db *memoryDB
}

func (r *memoryManufacturerRepository) nameTaken(name string, excludeID uint) bool {
	for id, m := range r.db.manufacturers {
		if id != excludeID && m.Name == name {
			return true
		}
	}
	return false
}

func (r *memoryManufacturerRepository) Create(ctx context.Context, manufacturer *models.Manufacturer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.nameTaken(manufacturer.Name, 0) {
		return ErrDuplicate
	}
	manufacturer.ID = r.db.allocate("manufacturers")
	r.db.stamp(&manufacturer.BaseModel, true)
	r.db.manufacturers[manufacturer.ID] = *manufacturer
	return nil
}

func (r *memoryManufacturerRepository) FindByID(ctx context.Context, id uint) (*models.Manufacturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.manufacturers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (r *memoryManufacturerRepository) FindByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, m := range r.db.manufacturers {
		if m.Name == name {
			found := m
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryManufacturerRepository) Save(ctx context.Context, manufacturer *models.Manufacturer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.manufacturers[manufacturer.ID]; !ok {
		return ErrNotFound
	}
	if r.nameTaken(manufacturer.Name, manufacturer.ID) {
		return ErrDuplicate
	}
	r.db.stamp(&manufacturer.BaseModel, false)
	r.db.manufacturers[manufacturer.ID] = *manufacturer
	return nil
}

func (r *memoryManufacturerRepository) Delete(ctx context.Context, id uint) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.manufacturers[id]; !ok {
		return ErrNotFound
	}
	for _, m := range r.db.medicines {
		if m.ManufacturerID == id {
			return ErrReferenced
		}
	}
	delete(r.db.manufacturers, id)
	return nil
}

func (r *memoryManufacturerRepository) List(ctx context.Context) ([]models.Manufacturer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	manufacturers := make([]models.Manufacturer, 0, len(r.db.manufacturers))
	for _, m := range r.db.manufacturers {
		manufacturers = append(manufacturers, m)
	}
	sort.Slice(manufacturers, func(i, j int) bool { return manufacturers[i].Name < manufacturers[j].Name })
	return manufacturers, nil
}

func (r *memoryManufacturerRepository) Count(ctx context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return int64(len(r.db.manufacturers)), nil
}
