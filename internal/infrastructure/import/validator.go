package csvimport

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// FieldType is the declared type of a CSV column.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
)

// FieldRule is the validation contract for one column.
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MinLength   int
	MaxLength   int
	MinValue    *decimal.Decimal
	MaxValue    *decimal.Decimal
	Pattern     *regexp.Regexp
	PatternDesc string
	Unique      bool
}

// FieldRuleBuilder assembles a FieldRule fluently.
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for the named column, typed string by default.
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column: column,
			Type:   TypeString,
		},
	}
}

// Required marks the column as mandatory.
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// String types the column as free text.
func (b *FieldRuleBuilder) String() *FieldRuleBuilder {
	b.rule.Type = TypeString
	return b
}

// Int types the column as a whole number.
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal types the column as an exact decimal, for prices.
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// MinLength sets the minimum text length.
func (b *FieldRuleBuilder) MinLength(n int) *FieldRuleBuilder {
	b.rule.MinLength = n
	return b
}

// MaxLength sets the maximum text length.
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Length sets both length bounds.
func (b *FieldRuleBuilder) Length(min, max int) *FieldRuleBuilder {
	b.rule.MinLength = min
	b.rule.MaxLength = max
	return b
}

// MinValue sets the lower numeric bound.
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets the upper numeric bound.
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Range sets both numeric bounds.
func (b *FieldRuleBuilder) Range(min, max decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &min
	b.rule.MaxValue = &max
	return b
}

// Pattern adds a regex the value must match; description goes into the
// error message.
func (b *FieldRuleBuilder) Pattern(pattern, description string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = description
	return b
}

// Unique rejects repeated values for this column within one file.
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Build returns the finished rule.
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies a rule set row by row, accumulating errors.
type FieldValidator struct {
	rules       map[string]FieldRule
	uniqueCheck map[string]map[string]int // column -> value -> first row
	errors      *ErrorCollection
}

// NewFieldValidator builds a validator over the given rules.
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	ruleMap := make(map[string]FieldRule, len(rules))
	for _, r := range rules {
		ruleMap[r.Column] = r
	}
	return &FieldValidator{
		rules:       ruleMap,
		uniqueCheck: make(map[string]map[string]int),
		errors:      NewErrorCollection(maxErrors),
	}
}

// ValidateRow checks every rule against the row and returns whether the
// row passed. Failures are recorded in the error collection.
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true

	for column, rule := range v.rules {
		value := row.Get(column)

		if rule.Required && value == "" {
			v.errors.AddRequiredError(row.LineNumber, column)
			ok = false
			continue
		}
		// Empty optional fields pass
		if value == "" {
			continue
		}

		if err := parseTyped(value, rule.Type); err != nil {
			v.errors.AddTypeError(row.LineNumber, column, string(rule.Type), value)
			ok = false
			continue
		}

		if rule.MaxLength > 0 && len(value) > rule.MaxLength {
			v.errors.AddLengthError(row.LineNumber, column, rule.MinLength, rule.MaxLength)
			ok = false
		}
		if rule.MinLength > 0 && len(value) < rule.MinLength {
			v.errors.AddLengthError(row.LineNumber, column, rule.MinLength, rule.MaxLength)
			ok = false
		}

		if rule.Type == TypeInt || rule.Type == TypeDecimal {
			if err := checkBounds(value, rule.MinValue, rule.MaxValue); err != nil {
				if rule.MinValue != nil && rule.MaxValue != nil {
					minFloat, _ := rule.MinValue.Float64()
					maxFloat, _ := rule.MaxValue.Float64()
					v.errors.AddRangeError(row.LineNumber, column, minFloat, maxFloat)
				} else {
					v.errors.Add(NewRowErrorWithValue(row.LineNumber, column,
						ErrCodeImportInvalidRange, err.Error(), value))
				}
				ok = false
			}
		}

		if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
			v.errors.AddPatternError(row.LineNumber, column, rule.PatternDesc, value)
			ok = false
		}

		if rule.Unique {
			if v.uniqueCheck[column] == nil {
				v.uniqueCheck[column] = make(map[string]int)
			}
			if firstRow, seen := v.uniqueCheck[column][value]; seen {
				v.errors.Add(NewRowErrorWithValue(row.LineNumber, column, ErrCodeImportDuplicateInFile,
					fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, firstRow), value))
				ok = false
			} else {
				v.uniqueCheck[column][value] = row.LineNumber
			}
		}
	}

	return ok
}

func parseTyped(value string, fieldType FieldType) error {
	switch fieldType {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	}
	return nil
}

func checkBounds(value string, min, max *decimal.Decimal) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	if min != nil && d.LessThan(*min) {
		return fmt.Errorf("value %s is less than minimum %s", value, min.String())
	}
	if max != nil && d.GreaterThan(*max) {
		return fmt.Errorf("value %s is greater than maximum %s", value, max.String())
	}
	return nil
}

// Errors exposes the accumulated row errors.
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// Reset clears per-file state so the validator can be reused.
func (v *FieldValidator) Reset() {
	v.uniqueCheck = make(map[string]map[string]int)
	v.errors.Clear()
}
