package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/comprasync/backend/src/models"
)

func validPurchase() models.Purchase {
	return models.Purchase{
		DocumentKey:      "F-100",
		Name:             "ACME Suministros",
		Reference:        "OC-2041",
		DocumentDate:     time.Date(2024, 8, 3, 10, 30, 0, 0, time.UTC),
		PaymentDate:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		Currency:         "MXN",
		ExchangeRate:     17.25,
		TotalIndirect:    120.5,
		Amount:           15000.75,
		AmountInCurrency: 869.61,
	}
}

func TestMapToMondayItem(t *testing.T) {
	item, err := MapToMondayItem(validPurchase())
	require.NoError(t, err)

	assert.Equal(t, "F-100", item.Name)
	assert.Equal(t, "ACME Suministros", item.ColumnValues[columnName])
	assert.Equal(t, "OC-2041", item.ColumnValues[columnReference])
	assert.Equal(t, "2024-08-03T10:30:00Z", item.ColumnValues[columnDocumentDate])
	assert.Equal(t, "2024-09-02T00:00:00Z", item.ColumnValues[columnPaymentDate])
	assert.Equal(t, "MXN", item.ColumnValues[columnCurrency])
	assert.Equal(t, 17.25, item.ColumnValues[columnExchangeRate])
	assert.Equal(t, 120.5, item.ColumnValues[columnTotalIndirect])
	assert.Equal(t, 15000.75, item.ColumnValues[columnAmount])
	assert.Equal(t, 869.61, item.ColumnValues[columnAmountInCurrency])
}

func TestMapToMondayItemDoesNotRound(t *testing.T) {
	p := validPurchase()
	p.Amount = 0.30000000000000004

	item, err := MapToMondayItem(p)
	require.NoError(t, err)
	assert.Equal(t, 0.30000000000000004, item.ColumnValues[columnAmount])
}

func TestMapToMondayItemRejectsIncompleteRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Purchase)
	}{
		{"missing document key", func(p *models.Purchase) { p.DocumentKey = "" }},
		{"zero document date", func(p *models.Purchase) { p.DocumentDate = time.Time{} }},
		{"zero payment date", func(p *models.Purchase) { p.PaymentDate = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPurchase()
			tt.mutate(&p)

			_, err := MapToMondayItem(p)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMappingFailed))
		})
	}
}
