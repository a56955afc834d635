package services

import (
	"context"
	"io"

	"github.com/tealeg/xlsx"

	"shopfront/internal/repos"
)

// ExportService renders the catalog as an xlsx workbook for admins.
type ExportService struct {
	Prods *repos.ProductRepo
}

func NewExportService(prods *repos.ProductRepo) *ExportService {
	return &ExportService{Prods: prods}
}

var exportHeader = []string{
	"Product ID", "Name", "Category ID", "Brand ID", "Price", "Discount Price", "Gender", "Material",
	"Variant ID", "Size", "Color", "Quantity", "Variant Price",
}

// WriteProducts writes one row per variant; products without variants get a
// single row with empty variant columns.
func (s *ExportService) WriteProducts(ctx context.Context, w io.Writer) error {
	ps, err := s.Prods.All(ctx)
	if err != nil {
		return err
	}
	details, err := s.Prods.Details(ctx, ps)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}
	row := sheet.AddRow()
	for _, h := range exportHeader {
		row.AddCell().SetString(h)
	}

	for _, d := range details {
		base := []any{
			d.ID, d.Name, optID(d.CategoryID), optID(d.BrandID), d.Price.StringFixed(2),
			"", d.Gender, d.Material,
		}
		if d.DiscountPrice.Valid {
			base[5] = d.DiscountPrice.Decimal.StringFixed(2)
		}
		if len(d.Variants) == 0 {
			addRow(sheet, append(base, "", "", "", "", ""))
			continue
		}
		for _, v := range d.Variants {
			vp := ""
			if v.Price.Valid {
				vp = v.Price.Decimal.StringFixed(2)
			}
			addRow(sheet, append(append([]any{}, base...), v.ID, v.Size, v.Color, v.Quantity, vp))
		}
	}
	return file.Write(w)
}

func addRow(sheet *xlsx.Sheet, values []any) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetValue(v)
	}
}

func optID(id *int64) any {
	if id == nil {
		return ""
	}
	return *id
}
