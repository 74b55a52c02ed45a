package codec

import "errors"

// RowResult is the outcome of coercing one row in a batch. A failed row
// carries its error without affecting siblings.
type RowResult struct {
	Values []any
	Err    error
}

// LoadRow coerces one native row through the loader chains of cols.
// The first failure is returned attributed to its column; previously
// coerced columns are discarded.
func (p *Pipeline) LoadRow(cols []Column, row []any) ([]any, error) {
	if len(cols) != len(row) {
		return nil, errors.New("column/value count mismatch")
	}
	out := make([]any, len(row))
	for i, col := range cols {
		v, err := p.Load(col.Type, row[i])
		if err != nil {
			return nil, attribute(err, col.Name)
		}
		out[i] = v
	}
	return out, nil
}

// LoadRows coerces a batch of rows, returning one RowResult per input
// row. A decode failure is confined to its own result.
func (p *Pipeline) LoadRows(cols []Column, rows [][]any) []RowResult {
	results := make([]RowResult, len(rows))
	for i, row := range rows {
		values, err := p.LoadRow(cols, row)
		results[i] = RowResult{Values: values, Err: err}
	}
	return results
}

// DumpRow coerces one abstract row through the dumper chains of cols.
func (p *Pipeline) DumpRow(cols []Column, row []any) ([]any, error) {
	if len(cols) != len(row) {
		return nil, errors.New("column/value count mismatch")
	}
	out := make([]any, len(row))
	for i, col := range cols {
		v, err := p.Dump(col.Type, row[i])
		if err != nil {
			return nil, attribute(err, col.Name)
		}
		out[i] = v
	}
	return out, nil
}

// attribute stamps the column name onto a coercion error.
func attribute(err error, column string) error {
	var de *DecodeError
	if errors.As(err, &de) {
		de.Column = column
		return de
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		ee.Column = column
		return ee
	}
	return err
}
