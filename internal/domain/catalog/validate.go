package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
	ivalidator "github.com/flexprice/productcatalog/internal/validator"
	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
)

// ValidationError names the offending field of a raw catalog. Errors returned
// by Validate and Map wrap it and are marked with ierr.ErrValidation.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid catalog at %s: %s", e.Path, e.Reason)
}

const rootPath = "$"

var (
	validatorOnce sync.Once
	structRules   *validator.Validate
)

func rules() *validator.Validate {
	validatorOnce.Do(func() {
		structRules = ivalidator.New()
	})
	return structRules
}

// Validate parses raw catalog bytes, keeping only the known fields, and checks
// the result against the catalog contract. It has no side effects.
func Validate(data []byte) (*RawCatalog, error) {
	var raw RawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newValidationError(decodePath(data, err), decodeReason(err), err)
	}

	if err := rules().Struct(&raw); err != nil {
		var fieldErrs validator.ValidationErrors
		if ierr.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			return nil, newValidationError(fieldPath(first.Namespace()), ruleReason(first), err)
		}
		return nil, ierr.WithError(err).
			WithHint("Catalog could not be validated").
			Mark(ierr.ErrSystem)
	}

	if verr := checkInvariants(&raw); verr != nil {
		return nil, newValidationError(verr.Path, verr.Reason, nil)
	}

	return &raw, nil
}

func newValidationError(path, reason string, cause error) error {
	verr := &ValidationError{Path: path, Reason: reason}
	details := map[string]any{
		"path":   path,
		"reason": reason,
	}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	return ierr.WithError(verr).
		WithHintf("Catalog field %s %s", path, reason).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

// decodePath turns the dotted field of a type error into the indexed path of
// the offending value ex products.name -> products[1].name
func decodePath(data []byte, err error) string {
	var typeErr *json.UnmarshalTypeError
	if !ierr.As(err, &typeErr) || typeErr.Field == "" {
		return rootPath
	}
	kind, _, _ := strings.Cut(typeErr.Value, " ")
	if path, ok := findKind(gjson.ParseBytes(data), strings.Split(typeErr.Field, "."), "", kind); ok {
		return path
	}
	return typeErr.Field
}

// findKind walks fields in document order, stepping into every array element,
// and returns the path of the first value of the given json kind
func findKind(node gjson.Result, fields []string, path, kind string) (string, bool) {
	if len(fields) == 0 && jsonKind(node) == kind {
		return path, true
	}
	if node.IsArray() {
		var (
			found string
			ok    bool
		)
		i := 0
		node.ForEach(func(_, item gjson.Result) bool {
			found, ok = findKind(item, fields, fmt.Sprintf("%s[%d]", path, i), kind)
			i++
			return !ok
		})
		return found, ok
	}
	if len(fields) == 0 || !node.IsObject() {
		return "", false
	}
	child := node.Get(fields[0])
	if !child.Exists() {
		return "", false
	}
	next := fields[0]
	if path != "" {
		next = path + "." + fields[0]
	}
	return findKind(child, fields[1:], next, kind)
}

func jsonKind(r gjson.Result) string {
	switch r.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "bool"
	case gjson.JSON:
		if r.IsArray() {
			return "array"
		}
		return "object"
	default:
		return "null"
	}
}

func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if ierr.As(err, &typeErr) {
		if strings.HasPrefix(typeErr.Value, "object") || strings.HasPrefix(typeErr.Value, "array") {
			return fmt.Sprintf("must not be an %s", typeErr.Value)
		}
		return fmt.Sprintf("must not be a %s", typeErr.Value)
	}
	var syntaxErr *json.SyntaxError
	if ierr.As(err, &syntaxErr) {
		return fmt.Sprintf("is not valid json at offset %d", syntaxErr.Offset)
	}
	return "could not be decoded"
}

// fieldPath drops the root struct name from a validator namespace
// ex RawCatalog.products[0].name -> products[0].name
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func ruleReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_without":
		return "is required when discountPercentage is absent"
	case "currency":
		return fmt.Sprintf("%q is not a supported currency", fe.Value())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

// checkInvariants enforces the cross node rules the struct tags cannot express.
// Rate plan and charge ids are unique across the whole catalog because prices
// are looked up by id alone.
func checkInvariants(raw *RawCatalog) *ValidationError {
	productKeys := make(map[string]int)
	ratePlanIDs := make(map[string]string)
	chargeIDs := make(map[string]string)

	for i, product := range raw.Products {
		productPath := fmt.Sprintf("products[%d]", i)
		if err := checkKey(productKeys, product.Name, i, productPath, "products"); err != nil {
			return err
		}

		ratePlanKeys := make(map[string]int)
		for j, plan := range product.RatePlans {
			planPath := fmt.Sprintf("%s.productRatePlans[%d]", productPath, j)
			if err := checkKey(ratePlanKeys, plan.Name, j, planPath, productPath+".productRatePlans"); err != nil {
				return err
			}
			if seen, ok := ratePlanIDs[plan.ID]; ok {
				return &ValidationError{Path: planPath + ".id", Reason: fmt.Sprintf("duplicates %s.id", seen)}
			}
			ratePlanIDs[plan.ID] = planPath

			chargeKeys := make(map[string]int)
			for k, charge := range plan.Charges {
				chargePath := fmt.Sprintf("%s.productRatePlanCharges[%d]", planPath, k)
				if err := checkKey(chargeKeys, charge.Name, k, chargePath, planPath+".productRatePlanCharges"); err != nil {
					return err
				}
				if seen, ok := chargeIDs[charge.ID]; ok {
					return &ValidationError{Path: chargePath + ".id", Reason: fmt.Sprintf("duplicates %s.id", seen)}
				}
				chargeIDs[charge.ID] = chargePath

				if err := checkPricing(charge.Pricing, chargePath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkKey(seen map[string]int, name string, index int, path, scope string) *ValidationError {
	key := NormalizeKey(name)
	if key == "" {
		return &ValidationError{Path: path + ".name", Reason: "is blank"}
	}
	if prev, ok := seen[key]; ok {
		return &ValidationError{
			Path:   path + ".name",
			Reason: fmt.Sprintf("key %q duplicates %s[%d].name", key, scope, prev),
		}
	}
	seen[key] = index
	return nil
}

func checkPricing(pricing []RawPricing, chargePath string) *ValidationError {
	currencies := make(map[types.Currency]int)
	for p, entry := range pricing {
		entryPath := fmt.Sprintf("%s.pricing[%d]", chargePath, p)
		currency := types.Currency(entry.Currency)
		if prev, ok := currencies[currency]; ok {
			return &ValidationError{
				Path:   entryPath + ".currency",
				Reason: fmt.Sprintf("%s duplicates %s.pricing[%d].currency", currency, chargePath, prev),
			}
		}
		currencies[currency] = p

		if entry.Price != nil && entry.Price.Value.IsNegative() {
			return &ValidationError{Path: entryPath + ".price", Reason: "must not be negative"}
		}
		if entry.DiscountPercentage != nil && entry.DiscountPercentage.Value.IsNegative() {
			return &ValidationError{Path: entryPath + ".discountPercentage", Reason: "must not be negative"}
		}
		for t, tier := range entry.Tiers {
			if tier.Price.Value.IsNegative() {
				return &ValidationError{
					Path:   fmt.Sprintf("%s.tiers[%d].price", entryPath, t),
					Reason: "must not be negative",
				}
			}
		}
	}
	return nil
}
