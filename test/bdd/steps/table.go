package steps

import (
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/planet"
)

func column(table *godog.Table, name string) int {
	if len(table.Rows) == 0 {
		return -1
	}
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == name {
			return i
		}
	}
	return -1
}

func cell(row *messages.PickleTableRow, index int) string {
	if index < 0 || index >= len(row.Cells) {
		return ""
	}
	return row.Cells[index].Value
}

// payloadFromTable turns a "| field | value |" table into planet fields on top
// of base. Numeric values become float64, as they would after JSON decoding.
func payloadFromTable(table *godog.Table, base planet.Payload) (planet.Payload, error) {
	fieldCol, valueCol := column(table, "field"), column(table, "value")
	if fieldCol < 0 || valueCol < 0 {
		return nil, fmt.Errorf("table needs field and value columns")
	}
	for _, row := range table.Rows[1:] {
		raw := cell(row, valueCol)
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			base[cell(row, fieldCol)] = n
		} else {
			base[cell(row, fieldCol)] = raw
		}
	}
	return base, nil
}
