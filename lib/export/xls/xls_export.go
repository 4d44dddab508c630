package xlsexport

import (
	"bytes"

	dbmodels "cpsms-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportPermitJournal(list []dbmodels.Permit) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

// заголовки журнала на языке заказчика
var permitHeaders = []string{"Permit ID", "Description", "Risk Level", "Status", "Issued By", "Approved By", "Issue Date", "Valid Until"}

func (i impl) ExportPermitJournal(list []dbmodels.Permit) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, permitHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writePermitData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "Permits")
	return f.WriteToBuffer()
}

func writePermitData(f *excelize.File, sheet string, list []dbmodels.Permit, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(permitHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Permit ID"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.ID); err != nil {
			return row, err
		}

		// "Description"
		col++
		if err := writeColumn(f, sheet, col, row, item.Description); err != nil {
			return row, err
		}

		// "Risk Level"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.RiskLevel)); err != nil {
			return row, err
		}

		// "Status"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		// "Issued By"
		col++
		if err := writeColumn(f, sheet, col, row, item.IssuedByName); err != nil {
			return row, err
		}

		// "Approved By"
		col++
		if item.ApprovedBy != nil {
			if err := writeColumn(f, sheet, col, row, *item.ApprovedBy); err != nil {
				return row, err
			}
		}

		// "Issue Date"
		col++
		if !item.IssueDate.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.IssueDate.Format("02.01.2006 15:04")); err != nil {
				return row, err
			}
		}

		// "Valid Until"
		col++
		if !item.ValidUntil.IsZero() {
			if err := writeColumn(f, sheet, col, row, item.ValidUntil.Format("02.01.2006 15:04")); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}
