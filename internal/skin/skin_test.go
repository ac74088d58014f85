package skin

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Чёрные точки", "черные точки"},
		{"  ЧЁРНЫЕ ТОЧКИ ", "черные точки"},
		{"Dry", "dry"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSkinType(t *testing.T) {
	tests := []struct {
		in      string
		want    SkinType
		wantErr bool
	}{
		{"Dry", SkinDry, false},
		{"dry", SkinDry, false},
		{"Сухая", SkinDry, false},
		{"жирная", SkinOily, false},
		{"Не уверен(а)", SkinUnsure, false},
		{"Combination", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSkinType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSkinType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSkinType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseAgeRange(t *testing.T) {
	if got, err := ParseAgeRange(" 45+ "); err != nil || got != Age45Plus {
		t.Errorf("ParseAgeRange(45+) = %q, %v", got, err)
	}
	if _, err := ParseAgeRange("60-70"); err == nil {
		t.Error("expected error for unknown age range")
	}
}

func TestMethodComplexity(t *testing.T) {
	want := map[Method]int{
		SkincareCosmetics:     1,
		Peels:                 2,
		Massage:               2,
		Taping:                2,
		HardwareCosmetology:   3,
		InjectableCosmetology: 5,
		MethodUnknown:         1,
	}
	for m, w := range want {
		if got := m.Complexity(); got != w {
			t.Errorf("%s.Complexity() = %d, want %d", m, got, w)
		}
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"Skincare Cosmetics", SkincareCosmetics},
		{"уходовая косметика", SkincareCosmetics},
		{"Инъекционная косметология", InjectableCosmetology},
		{"Taping", Taping},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if err != nil {
			t.Errorf("ParseMethod(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseMethod("Acupuncture"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestCanonicalType(t *testing.T) {
	if got, ok := SkincareCosmetics.CanonicalType("Крем"); !ok || got != "Cream" {
		t.Errorf("CanonicalType(Крем) = %q, %v; want Cream, true", got, ok)
	}
	if got, ok := Taping.CanonicalType("лимфодренажное"); !ok || got != "Lymphatic Drainage" {
		t.Errorf("CanonicalType(лимфодренажное) = %q, %v", got, ok)
	}
	if _, ok := Peels.CanonicalType("Cream"); ok {
		t.Error("Cream should not be a Peels type")
	}
}

func TestCanonicalTypeName(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"Сыворотка", "Serum", true},
		{"ботулинотерапия", "Botulinum Therapy", true},
		{"Лимфодренажный", "Lymphatic Drainage", true},
		{"Лимфодренажное", "Lymphatic Drainage", true},
		{"rf lifting", "RF Lifting", true},
		{"Hot Stones", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalTypeName(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalTypeName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMethodTextRoundTrip(t *testing.T) {
	b, err := HardwareCosmetology.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var m Method
	if err := m.UnmarshalText(b); err != nil {
		t.Fatal(err)
	}
	if m != HardwareCosmetology {
		t.Errorf("round trip = %s, want %s", m, HardwareCosmetology)
	}
}

func TestDefaultSymptoms(t *testing.T) {
	m := DefaultSymptoms()

	if p, ok := m.Problem("Чувство стянутости"); !ok || p != "Обезвоженность" {
		t.Errorf("Problem(Чувство стянутости) = %q, %v", p, ok)
	}
	if len(m.Groups()) != 4 {
		t.Errorf("len(Groups()) = %d, want 4", len(m.Groups()))
	}
}

func TestProblemsFirstSeenOrderAndDedup(t *testing.T) {
	m, err := NewSymptomMap([]SymptomGroup{
		{Problem: "Dehydration", Symptoms: []string{"Tightness", "Flaking"}},
		{Problem: "Wrinkles", Symptoms: []string{"Fine lines"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := m.Problems([]string{"Fine lines", "Tightness", "unknown", "Flaking"})
	want := []string{"Wrinkles", "Dehydration"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Problems = %v, want %v", got, want)
	}

	if got := m.SymptomsFor("dehydration", []string{"Tightness", "Fine lines", "Flaking"}); !reflect.DeepEqual(got, []string{"Tightness", "Flaking"}) {
		t.Errorf("SymptomsFor = %v", got)
	}
}

func TestSymptomMapFoldsProblemYo(t *testing.T) {
	m, err := NewSymptomMap([]SymptomGroup{{Problem: "Чёрные точки", Symptoms: []string{"Закупоренные поры"}}})
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := m.Problem("закупоренные поры"); p != "Черные точки" {
		t.Errorf("Problem = %q, want %q", p, "Черные точки")
	}
}

func TestSymptomMapRejectsAmbiguousSymptom(t *testing.T) {
	_, err := NewSymptomMap([]SymptomGroup{
		{Problem: "A", Symptoms: []string{"itch"}},
		{Problem: "B", Symptoms: []string{"Itch"}},
	})
	if err == nil {
		t.Fatal("expected error for symptom mapped to two problems")
	}
}
