package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// RenderJSON renders the schema as indented JSON with a trailing newline
func (s KeySchema) RenderJSON() ([]byte, error) {
	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render key schema as json").
			Mark(ierr.ErrSystem)
	}
	return append(out, '\n'), nil
}

// RenderYAML renders the schema as YAML
func (s KeySchema) RenderYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render key schema as yaml").
			Mark(ierr.ErrSystem)
	}
	if err := enc.Close(); err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	return buf.Bytes(), nil
}

// RenderGo renders the schema as gofmt'd Go source declaring typed constants
// for every key, so downstream code referencing a key that vanished from the
// catalog stops compiling.
func (s KeySchema) RenderGo(pkg string) ([]byte, error) {
	var buf bytes.Buffer
	if err := goTemplate.Execute(&buf, newGoFile(pkg, s)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render key schema as go source").
			Mark(ierr.ErrSystem)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Generated key schema is not valid go").
			WithMessage(buf.String()).
			Mark(ierr.ErrSystem)
	}
	return src, nil
}

type goFile struct {
	Package  string
	Products []goProduct
}

type goProduct struct {
	Ident     string
	Key       string
	RatePlans []goRatePlan
}

type goRatePlan struct {
	Ident      string
	Key        string
	Charges    []goCharge
	Currencies []string
}

type goCharge struct {
	Ident string
	Key   string
}

func newGoFile(pkg string, s KeySchema) goFile {
	idents := identSet{}
	file := goFile{Package: pkg}
	for _, p := range s.Products {
		productIdent := Ident(p.Key)
		gp := goProduct{Ident: idents.claim("Product" + productIdent), Key: p.Key}
		for _, rp := range p.RatePlans {
			planIdent := productIdent + Ident(rp.Key)
			grp := goRatePlan{Ident: idents.claim("RatePlan" + planIdent), Key: rp.Key}
			for _, ch := range rp.Charges {
				grp.Charges = append(grp.Charges, goCharge{
					Ident: idents.claim("Charge" + planIdent + Ident(ch)),
					Key:   ch,
				})
			}
			for _, cur := range rp.Currencies {
				grp.Currencies = append(grp.Currencies, cur.String())
			}
			gp.RatePlans = append(gp.RatePlans, grp)
		}
		file.Products = append(file.Products, gp)
	}
	return file
}

// identSet hands out unique identifiers in call order so clashes resolve the
// same way on every run
type identSet map[string]int

func (s identSet) claim(ident string) string {
	n := s[ident]
	s[ident] = n + 1
	if n == 0 {
		return ident
	}
	return fmt.Sprintf("%s%d", ident, n+1)
}

// Ident turns a catalog key into an exported Go identifier fragment
// ex "Guardian Weekly - ROW" -> "GuardianWeeklyROW"
func Ident(key string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	words := strings.FieldsFunc(key, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	if b.Len() == 0 {
		return "Unnamed"
	}
	return b.String()
}

var goTemplate = template.Must(template.New("keys").Parse(`// Code generated by catalog-keys. DO NOT EDIT.

package {{.Package}}

// ProductKey identifies a product in the canonical catalog.
type ProductKey string

// RatePlanKey identifies a rate plan within its product.
type RatePlanKey string

// ChargeKey identifies a charge within its rate plan.
type ChargeKey string

const (
{{- range .Products}}
	{{.Ident}} ProductKey = {{printf "%q" .Key}}
{{- end}}
)

const (
{{- range .Products}}{{range .RatePlans}}
	{{.Ident}} RatePlanKey = {{printf "%q" .Key}}
{{- end}}{{end}}
)

const (
{{- range .Products}}{{range .RatePlans}}{{range .Charges}}
	{{.Ident}} ChargeKey = {{printf "%q" .Key}}
{{- end}}{{end}}{{end}}
)

// RatePlans lists the rate plan keys of every product.
var RatePlans = map[ProductKey][]RatePlanKey{
{{- range .Products}}
	{{.Ident}}: { {{- range .RatePlans}}{{.Ident}}, {{end -}} },
{{- end}}
}

// Charges lists the charge keys of every rate plan.
var Charges = map[ProductKey]map[RatePlanKey][]ChargeKey{
{{- range .Products}}
	{{.Ident}}: {
{{- range .RatePlans}}
		{{.Ident}}: { {{- range .Charges}}{{.Ident}}, {{end -}} },
{{- end}}
	},
{{- end}}
}

// Currencies lists the currencies priced under every rate plan.
var Currencies = map[ProductKey]map[RatePlanKey][]string{
{{- range .Products}}
	{{.Ident}}: {
{{- range .RatePlans}}
		{{.Ident}}: { {{- range .Currencies}}{{printf "%q" .}}, {{end -}} },
{{- end}}
	},
{{- end}}
}
`))
