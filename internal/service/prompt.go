package service

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/boddenberg/automation-roi-go/internal/brl"

	"gopkg.in/yaml.v2"
)

// SystemPrompt is sent as the system message of every estimate.
const SystemPrompt = "Você é um especialista em precificação de projetos de automação de dados. Sempre responda apenas com números."

//go:embed rubric.yaml
var defaultRubric []byte

const userPromptTemplate = `Você é um especialista em precificação de projetos de automação de dados e Business Intelligence.

Analise a seguinte descrição de necessidade de automação e estime o valor de investimento necessário em Reais (BRL):

"{{.Description}}"

Considere:
- Complexidade técnica
- Tempo de desenvolvimento estimado
- Integrações necessárias
- Manutenção e suporte

Faixa de valores típicos no mercado brasileiro:
{{range .Tiers}}- {{.Name}} ({{.Examples}}): {{brl .Min}} - {{brl .Max}}
{{end}}
Responda APENAS com o valor numérico estimado (sem símbolo de moeda, sem formatação, apenas o número). Exemplo: 8500`

// PriceTier is one market price range shown to the model.
type PriceTier struct {
	Name     string `yaml:"name"`
	Examples string `yaml:"examples"`
	Min      int64  `yaml:"min"`
	Max      int64  `yaml:"max"`
}

// Rubric is the ordered list of price tiers, from simple to complex.
type Rubric struct {
	Tiers []PriceTier `yaml:"tiers"`
}

// LoadRubric reads a YAML rubric from path, or the embedded default when
// path is empty.
func LoadRubric(path string) (*Rubric, error) {
	data := defaultRubric
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rubric: %w", err)
		}
		data = b
	}
	return ParseRubric(data)
}

// ParseRubric decodes and validates a YAML rubric.
func ParseRubric(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.UnmarshalStrict(data, &r); err != nil {
		return nil, fmt.Errorf("parse rubric: %w", err)
	}
	if len(r.Tiers) == 0 {
		return nil, fmt.Errorf("rubric has no tiers")
	}
	for i, t := range r.Tiers {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("rubric tier %d: name is required", i)
		}
		if t.Min <= 0 || t.Max < t.Min {
			return nil, fmt.Errorf("rubric tier %q: invalid range %d-%d", t.Name, t.Min, t.Max)
		}
	}
	return &r, nil
}

// PromptBuilder renders the user prompt for a project description.
type PromptBuilder struct {
	tmpl   *template.Template
	rubric *Rubric
}

// NewPromptBuilder compiles the prompt template for the given rubric.
func NewPromptBuilder(rubric *Rubric) (*PromptBuilder, error) {
	tmpl, err := template.New("estimate").
		Funcs(template.FuncMap{"brl": brl.FormatInt}).
		Parse(userPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &PromptBuilder{tmpl: tmpl, rubric: rubric}, nil
}

// Build embeds the description verbatim into the prompt.
func (b *PromptBuilder) Build(description string) (string, error) {
	var sb strings.Builder
	err := b.tmpl.Execute(&sb, struct {
		Description string
		Tiers       []PriceTier
	}{
		Description: description,
		Tiers:       b.rubric.Tiers,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}
