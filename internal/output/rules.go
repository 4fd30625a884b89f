package output

import "github.com/gyeh/laeextract/internal/model"

// RulesTables holds the two rules-engine tables in row form.
type RulesTables struct {
	Input     []model.InputValuesRow
	Evaluated []model.EvaluatedValuesRow
}

// NewRulesTables flattens results in input order.
func NewRulesTables(results []model.Result) RulesTables {
	t := RulesTables{
		Input:     make([]model.InputValuesRow, len(results)),
		Evaluated: make([]model.EvaluatedValuesRow, len(results)),
	}
	for i := range results {
		t.Input[i] = model.NewInputValuesRow(&results[i])
		t.Evaluated[i] = model.NewEvaluatedValuesRow(&results[i])
	}
	return t
}

// WriteRules writes the input_values and evaluated_values tables and returns
// the paths written.
func WriteRules(p Paths, f Format, t RulesTables) ([]string, error) {
	inPath, evPath := p.InputValues(f), p.EvaluatedValues(f)

	switch f {
	case FormatParquet:
		if err := WriteParquet(inPath, t.Input); err != nil {
			return nil, err
		}
		if err := WriteParquet(evPath, t.Evaluated); err != nil {
			return []string{inPath}, err
		}
	default:
		in := make([][]string, len(t.Input))
		for i := range t.Input {
			in[i] = t.Input[i].Strings()
		}
		if err := WriteCSV(inPath, model.InputValuesColumns(), in); err != nil {
			return nil, err
		}

		ev := make([][]string, len(t.Evaluated))
		for i := range t.Evaluated {
			ev[i] = t.Evaluated[i].Strings()
		}
		if err := WriteCSV(evPath, model.EvaluatedValuesColumns(), ev); err != nil {
			return []string{inPath}, err
		}
	}
	return []string{inPath, evPath}, nil
}
