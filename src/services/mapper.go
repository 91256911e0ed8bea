package services

import (
	"fmt"
	"time"

	"github.com/username/comprasync/backend/src/models"
)

// Monday column ids for the purchases board. These are part of the board's
// contract; changing a column on the board means updating this table.
const (
	columnName             = "text_mknkr94f"
	columnReference        = "text_mknk2qt"
	columnDocumentDate     = "date4"
	columnPaymentDate      = "date_mknkfx2h"
	columnCurrency         = "text_mksg6z6g"
	columnExchangeRate     = "numeric_mknkwc1"
	columnTotalIndirect    = "numeric_mknkwz9j"
	columnAmount           = "numeric_mknkb26y"
	columnAmountInCurrency = "numeric_mknk6qv1"
)

// MapToMondayItem transforms one purchase into its board representation.
// Pure: no I/O, no mutation of the input. Dates go out as full RFC3339
// timestamps and numeric fields are passed through unrounded.
func MapToMondayItem(p models.Purchase) (models.MondayItem, error) {
	if p.DocumentKey == "" {
		return models.MondayItem{}, fmt.Errorf("%w: missing document key", ErrMappingFailed)
	}
	if p.DocumentDate.IsZero() {
		return models.MondayItem{}, fmt.Errorf("%w: purchase %s has no document date", ErrMappingFailed, p.DocumentKey)
	}
	if p.PaymentDate.IsZero() {
		return models.MondayItem{}, fmt.Errorf("%w: purchase %s has no payment date", ErrMappingFailed, p.DocumentKey)
	}

	return models.MondayItem{
		Name: p.DocumentKey,
		ColumnValues: map[string]any{
			columnName:             p.Name,
			columnReference:        p.Reference,
			columnDocumentDate:     p.DocumentDate.Format(time.RFC3339),
			columnPaymentDate:      p.PaymentDate.Format(time.RFC3339),
			columnCurrency:         p.Currency,
			columnExchangeRate:     p.ExchangeRate,
			columnTotalIndirect:    p.TotalIndirect,
			columnAmount:           p.Amount,
			columnAmountInCurrency: p.AmountInCurrency,
		},
	}, nil
}
