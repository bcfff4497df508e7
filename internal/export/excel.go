// Package export renders analysis snapshots as spreadsheet workbooks.
package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/lane-pulse/backend/internal/analytics"
)

// BuildWorkbook renders a snapshot as a two-sheet XLSX workbook:
// "Lanes" has one row per lane/carrier pair, "Carriers" one row per
// carrier summary.
func BuildWorkbook(snap *analytics.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeLanesSheet(f, snap); err != nil {
		return nil, err
	}
	if err := writeCarriersSheet(f, snap); err != nil {
		return nil, err
	}

	// Drop the default sheet left over from NewFile.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	return f, nil
}

func writeLanesSheet(f *excelize.File, snap *analytics.Snapshot) error {
	const sheet = "Lanes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Rank", "Lane", "Carrier", "Shipments", "Avg Days", "Min Days",
		"Max Days", "Std Dev", "Range", "Consistency Score",
	}
	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	row := 2
	for _, laneID := range snap.Lanes {
		ls := snap.LaneStats[laneID]
		if ls == nil {
			continue
		}

		carriers := make([]string, 0, len(ls.Carriers))
		for name := range ls.Carriers {
			carriers = append(carriers, name)
		}
		sort.Strings(carriers)

		for _, name := range carriers {
			cs := ls.Carriers[name]
			cells := []interface{}{
				ls.Rank, laneID, name, cs.ShipmentCount, cs.AvgTransitDays,
				cs.MinTransitDays, cs.MaxTransitDays, cs.StandardDeviation,
				cs.AbsoluteRange, cs.ConsistencyScore,
			}
			if err := writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeCarriersSheet(f *excelize.File, snap *analytics.Snapshot) error {
	const sheet = "Carriers"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{
		"Carrier", "Avg Days", "Lanes", "Shipments",
		"Avg Consistency", "Weighted Consistency",
	}
	if err := writeRow(f, sheet, 1, toCells(headers)); err != nil {
		return err
	}

	for i, cs := range snap.Carriers {
		cells := []interface{}{
			cs.CarrierName, cs.AvgDays, cs.LaneCount, cs.ShipmentCount,
			cs.AvgConsistencyScore, cs.WeightedConsistencyScore,
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
