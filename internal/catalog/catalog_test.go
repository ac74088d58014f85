package catalog

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kalambet/skinrec/internal/skin"
)

func loadTestCatalog(t *testing.T, name string) *Catalog {
	t.Helper()
	c, err := Load(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Load(%s): %v", name, err)
	}
	return c
}

func TestLoadJSON(t *testing.T) {
	c := loadTestCatalog(t, "catalog.json")
	if c.Len() != 4 {
		t.Fatalf("Len = %d, want 4", c.Len())
	}

	first := c.Templates()[0]
	if first.SkinType != "Dry" {
		t.Errorf("skin type = %q, want canonical Dry", first.SkinType)
	}
	if first.Method != skin.InjectableCosmetology {
		t.Errorf("method = %v, want Injectable Cosmetology", first.Method)
	}
	if first.Type != "Biorevitalization" {
		t.Errorf("type = %q, want Biorevitalization", first.Type)
	}
	if !first.ContraindicatedDuringPregnancy {
		t.Error("expected pregnancy contraindication")
	}
	if got := first.ContraindicationList(); len(got) != 2 || got[1] != "Аутоиммунные заболевания" {
		t.Errorf("ContraindicationList = %v", got)
	}

	second := c.Templates()[1]
	if second.CourseDuration != "10" {
		t.Errorf("numeric course duration = %q, want 10", second.CourseDuration)
	}
	if second.Contraindications != "Rosacea\nFresh injections" {
		t.Errorf("list contraindications = %q", second.Contraindications)
	}

	malformed := c.Templates()[3]
	if malformed.Method != skin.MethodUnknown {
		t.Errorf("empty method loaded as %v", malformed.Method)
	}
	if err := malformed.Validate(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Validate = %v, want ErrMissingField", err)
	}
}

func TestLoadYAML(t *testing.T) {
	c := loadTestCatalog(t, "catalog.yaml")
	got := c.Applicable("обезвоженность", "normal", "25-35")
	if len(got) != 2 {
		t.Fatalf("Applicable = %d templates, want 2", len(got))
	}
	if got[0].CourseDuration != "30" {
		t.Errorf("course duration = %q, want 30", got[0].CourseDuration)
	}
	if got[0].Contraindications != "Individual intolerance" {
		t.Errorf("contraindications = %q", got[0].Contraindications)
	}
	if got[1].Method != skin.Peels || got[1].Type != "Superficial" {
		t.Errorf("second = %v/%q, want Peels/Superficial", got[1].Method, got[1].Type)
	}
	if got[1].Contraindications != "Herpes\nSunburn" {
		t.Errorf("text contraindications = %q", got[1].Contraindications)
	}
}

func TestLoadRejectsUnknownVocabulary(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "bad_method.json"))
	if err == nil {
		t.Fatal("expected error for unknown method and type")
	}
	var recErr *RecordError
	if !errors.As(err, &recErr) {
		t.Fatalf("error %v does not wrap *RecordError", err)
	}
	msg := err.Error()
	for _, want := range []string{"template #0", "Acupuncture", "template #1", "Cream"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
	if strings.Contains(msg, "template #2") {
		t.Errorf("valid record reported: %q", msg)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a/catalog.json", FormatJSON, false},
		{"catalog.YAML", FormatYAML, false},
		{"catalog.yml", FormatYAML, false},
		{"catalog.csv", "", true},
		{"catalog", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"problem":`), FormatJSON); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplicableExactMatch(t *testing.T) {
	c := loadTestCatalog(t, "catalog.json")

	got := c.Applicable("  МОРЩИНЫ ", "dry", "35-45")
	if len(got) != 2 {
		t.Fatalf("Applicable = %d templates, want 2", len(got))
	}
	if got[0].Method != skin.InjectableCosmetology || got[1].Method != skin.Massage {
		t.Errorf("catalog order not preserved: %v, %v", got[0].Method, got[1].Method)
	}
	for _, tmpl := range got {
		if skin.Normalize(tmpl.Problem) != "морщины" || tmpl.SkinType != "Dry" || tmpl.AgeRange != "35-45" {
			t.Errorf("template %+v does not match query", tmpl)
		}
	}

	// ё and е are the same letter for matching.
	if got := c.Applicable("Чёрные точки", "OILY", "18-25"); len(got) != 2 {
		t.Errorf("ё query matched %d templates, want 2", len(got))
	}

	for _, q := range [][3]string{
		{"Морщины", "Dry", "45+"},
		{"Морщины", "Oily", "35-45"},
		{"Пигментация", "Dry", "35-45"},
	} {
		got := c.Applicable(q[0], q[1], q[2])
		if got == nil || len(got) != 0 {
			t.Errorf("Applicable(%v) = %v, want empty slice", q, got)
		}
	}
}

func TestApplicableConcurrent(t *testing.T) {
	c := loadTestCatalog(t, "catalog.json")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Applicable("Морщины", "Dry", "35-45"); len(got) != 2 {
				t.Errorf("concurrent Applicable = %d", len(got))
			}
		}()
	}
	wg.Wait()
}

func TestNewCopiesInput(t *testing.T) {
	in := []Template{{Problem: "A", SkinType: "Dry", AgeRange: "18-25", Method: skin.Peels, Type: "Deep"}}
	c := New(in)
	in[0].Problem = "B"
	if got := c.Applicable("A", "Dry", "18-25"); len(got) != 1 {
		t.Fatalf("catalog changed by caller mutation")
	}
}

func TestStats(t *testing.T) {
	s := loadTestCatalog(t, "catalog.json").Stats()
	if s.Templates != 4 {
		t.Errorf("Templates = %d", s.Templates)
	}
	if s.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", s.Malformed)
	}
	if s.Problems["Морщины"] != 2 || s.Problems["Черные точки"] != 2 {
		t.Errorf("Problems = %v", s.Problems)
	}
	if s.Methods["Massage"] != 1 || s.Methods["Injectable Cosmetology"] != 1 {
		t.Errorf("Methods = %v", s.Methods)
	}
}

func TestProblems(t *testing.T) {
	got := loadTestCatalog(t, "catalog.json").Problems()
	if len(got) != 2 || got[0] != "Морщины" || got[1] != "Черные точки" {
		t.Errorf("Problems = %v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tmpl Template
		want string
	}{
		{"complete", Template{Method: skin.Peels, Type: "Deep"}, ""},
		{"no method", Template{Type: "Deep"}, "method"},
		{"no type", Template{Method: skin.Peels, Type: "  "}, "type"},
		{"neither", Template{}, "method, type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tmpl.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMissingField) || !strings.HasSuffix(err.Error(), tt.want) {
				t.Errorf("Validate = %v, want missing %q", err, tt.want)
			}
		})
	}
}

func TestParseDescription(t *testing.T) {
	text := "Метод: Пилинги\n\nТип: Поверхностный\nfree line\nЭффект: Обновление, сияние."
	got := ParseDescription(text)
	if len(got) != 4 {
		t.Fatalf("fields = %v", got)
	}
	if got[0] != (Field{Label: "Метод", Value: "Пилинги"}) {
		t.Errorf("first field = %+v", got[0])
	}
	if got[2] != (Field{Value: "free line"}) {
		t.Errorf("unlabelled field = %+v", got[2])
	}

	effects := FieldValues(text, "эффект")
	if len(effects) != 2 || effects[0] != "Обновление" || effects[1] != "сияние" {
		t.Errorf("FieldValues = %v", effects)
	}
	if FieldValues(text, "missing") != nil {
		t.Error("FieldValues for absent label should be nil")
	}
}
