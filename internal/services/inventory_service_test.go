package services

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/models"
)

type InventoryServiceTestSuite struct {
	storeSuite
	service *InventoryService
}

func (s *InventoryServiceTestSuite) SetupTest() {
	s.storeSuite.SetupTest()
	s.service = NewInventoryService(s.store, testInventoryConfig(), fixedClock, nil)
}

// seedReportFixture stocks three medicines with known prices and quantities.
func (s *InventoryServiceTestSuite) seedReportFixture() {
	s.seed(medicineFixture{name: "Paracetamol", batch: "PCM-1", category: s.tablets, manufacturer: s.cipla, selling: "1.50", cost: "1.00", quantity: 100, minimumStock: 10, expiryOffset: 200})
	s.seed(medicineFixture{name: "Ibuprofen", batch: "IBU-1", category: s.tablets, manufacturer: s.sunPharma, selling: "2.25", cost: "1.75", quantity: 40, minimumStock: 10, expiryOffset: 15})
	s.seed(medicineFixture{name: "Cough Syrup", batch: "CS-1", category: s.syrups, manufacturer: s.cipla, selling: "4.10", quantity: 5, minimumStock: 10, expiryOffset: -1})
}

func (s *InventoryServiceTestSuite) TestInventoryReportTotals() {
	s.seedReportFixture()

	report, err := s.service.GetInventoryReport(s.ctx)
	s.Require().NoError(err)

	// 1.50*100 + 2.25*40 + 4.10*5
	s.Equal(3, report.TotalMedicines)
	s.Equal("260.5", report.TotalInventoryValue.Decimal().String())
	// 1.00*100 + 1.75*40, the syrup has no cost price
	s.Equal("170", report.TotalCostValue.Decimal().String())
	s.Equal("90.5", report.PotentialProfit.Decimal().String())
	s.Equal("2026-10-18T09:30:00Z", report.GeneratedAt)

	s.Require().Len(report.ByCategory, 2)
	s.Equal("Syrups", report.ByCategory[0].Name)
	s.Equal(1, report.ByCategory[0].MedicineCount)
	s.Equal(5, report.ByCategory[0].TotalQuantity)
	s.Equal("20.5", report.ByCategory[0].TotalValue.Decimal().String())
	s.Equal("Tablets", report.ByCategory[1].Name)
	s.Equal(2, report.ByCategory[1].MedicineCount)
	s.Equal(140, report.ByCategory[1].TotalQuantity)
	s.Equal("240", report.ByCategory[1].TotalValue.Decimal().String())

	s.Equal([]ManufacturerRollup{
		{Name: "Cipla Limited", MedicineCount: 2, TotalQuantity: 105},
		{Name: "Sun Pharmaceutical", MedicineCount: 1, TotalQuantity: 40},
	}, report.ByManufacturer)
}

func (s *InventoryServiceTestSuite) TestInventoryReportOmitsEmptyGroups() {
	s.seedReportFixture()

	report, err := s.service.GetInventoryReport(s.ctx)
	s.Require().NoError(err)
	for _, rollup := range report.ByCategory {
		s.NotEqual("Vitamins", rollup.Name)
	}
}

func (s *InventoryServiceTestSuite) TestInventoryReportEmptyStore() {
	report, err := s.service.GetInventoryReport(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, report.TotalMedicines)
	s.True(report.TotalInventoryValue.Decimal().IsZero())

	body, err := json.Marshal(report)
	s.Require().NoError(err)
	s.Contains(string(body), `"total_inventory_value":0.00`)
	s.Contains(string(body), `"by_category":[]`)
}

func (s *InventoryServiceTestSuite) TestAlertsAllowOverlap() {
	s.seedReportFixture()

	alerts, err := s.service.GetAlerts(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, alerts.Expired.Count)
	s.Equal("Cough Syrup", alerts.Expired.Medicines[0].Name)
	s.Equal(1, alerts.LowStock.Count)
	s.Equal("Cough Syrup", alerts.LowStock.Medicines[0].Name)
	s.Equal(1, alerts.ExpiringSoon.Count)
	s.Equal("Ibuprofen", alerts.ExpiringSoon.Medicines[0].Name)
}

func (s *InventoryServiceTestSuite) TestStats() {
	s.seedReportFixture()

	stats, err := s.service.GetStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(Stats{
		TotalMedicines:     3,
		TotalCategories:    3,
		TotalManufacturers: 2,
		LowStockItems:      1,
		ExpiredItems:       1,
		ExpiringSoonItems:  1,
	}, *stats)
}

func (s *InventoryServiceTestSuite) TestArchiveWithoutArchiver() {
	_, err := s.service.ArchiveInventoryReport(s.ctx)
	s.Error(err)
}

func (s *InventoryServiceTestSuite) TestArchiveInventoryReport() {
	s.seedReportFixture()

	client := &fakeS3{}
	archiver := NewS3ReportArchiverWithClient(client, config.AWSConfig{
		Region:       "ap-south-1",
		ReportBucket: "chemist-reports",
		ReportPrefix: "inventory",
	}, fixedClock)
	service := NewInventoryService(s.store, testInventoryConfig(), fixedClock, archiver)

	result, err := service.ArchiveInventoryReport(s.ctx)
	s.Require().NoError(err)

	s.Equal("chemist-reports", result.Bucket)
	s.Regexp(`^inventory/2026/10/18/inventory_093000_[0-9a-f]{8}\.json$`, result.Key)
	s.Equal("https://chemist-reports.s3.ap-south-1.amazonaws.com/"+result.Key, result.URL)
	s.Equal("2026-10-18T09:30:00Z", result.ArchivedAt)

	s.Require().NotNil(client.input)
	s.Equal("application/json", aws.StringValue(client.input.ContentType))
	s.Equal(result.Size, int64(len(client.body)))

	var stored InventoryReport
	s.Require().NoError(json.Unmarshal(client.body, &stored))
	s.Equal(3, stored.TotalMedicines)
	s.Equal("260.5", stored.TotalInventoryValue.Decimal().String())
}

func (s *InventoryServiceTestSuite) TestArchiveUploadFailure() {
	archiver := NewS3ReportArchiverWithClient(&fakeS3{err: errors.New("access denied")}, config.AWSConfig{ReportBucket: "b"}, fixedClock)
	service := NewInventoryService(s.store, testInventoryConfig(), fixedClock, archiver)

	_, err := service.ArchiveInventoryReport(s.ctx)
	s.Require().Error(err)
	s.Contains(err.Error(), "access denied")
}

func TestInventoryServiceSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.input = input
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestBuildAlertsPureFunction(t *testing.T) {
	today, err := models.ParseDate("2026-10-18")
	require.NoError(t, err)

	medicines := []models.Medicine{
		{BaseModel: models.BaseModel{ID: 1}, Name: "A", Quantity: 5, MinimumStock: 10, ExpiryDate: today.AddDays(-1)},
		{BaseModel: models.BaseModel{ID: 2}, Name: "B", Quantity: 50, MinimumStock: 10, ExpiryDate: today},
		{BaseModel: models.BaseModel{ID: 3}, Name: "C", Quantity: 50, MinimumStock: 10, ExpiryDate: today.AddDays(7)},
	}

	alerts := BuildAlerts(medicines, today, 7)
	assert.Equal(t, 1, alerts.Expired.Count)
	assert.Equal(t, 2, alerts.ExpiringSoon.Count)
	assert.Equal(t, 1, alerts.LowStock.Count)
	assert.Equal(t, uint(1), alerts.Expired.Medicines[0].ID)
	assert.Equal(t, uint(1), alerts.LowStock.Medicines[0].ID)

	empty := BuildAlerts(nil, today, 30)
	assert.NotNil(t, empty.Expired.Medicines)
	assert.Zero(t, empty.LowStock.Count)
}

func TestBuildInventoryReportSkipsUnlinkedMedicines(t *testing.T) {
	medicines := []models.Medicine{
		{Name: "Loose", SellingPrice: decimal.RequireFromString("2.00"), Quantity: 3},
	}

	report := BuildInventoryReport(medicines)
	assert.Equal(t, 1, report.TotalMedicines)
	assert.Equal(t, "6", report.TotalInventoryValue.Decimal().String())
	assert.Empty(t, report.ByCategory)
	assert.Empty(t, report.ByManufacturer)
}
