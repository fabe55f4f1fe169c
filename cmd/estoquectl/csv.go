package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-api/internal/application/dto"
)

// Orden de columnas del CSV de productos.
const (
	colName = iota
	colDescription
	colCategory
	colMinimum
	colLocation
	minColumns = colCategory + 1
)

// readProductRows lee el CSV saltando el encabezado. Las columnas opcionales pueden faltar.
func readProductRows(r io.Reader, latin1 bool, comma rune) ([]dto.ProductImportRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	var rows []dto.ProductImportRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) < minColumns {
			return nil, fmt.Errorf("línea %d: se esperaban al menos %d columnas", line, minColumns)
		}
		row := dto.ProductImportRow{
			Name:         strings.TrimSpace(rec[colName]),
			Description:  strings.TrimSpace(rec[colDescription]),
			CategoryName: strings.TrimSpace(rec[colCategory]),
		}
		if v := field(rec, colMinimum); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("línea %d: estoque_minimo %q no es un entero", line, v)
			}
			row.MinimumStock = n
		}
		row.Location = field(rec, colLocation)
		rows = append(rows, row)
	}
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
