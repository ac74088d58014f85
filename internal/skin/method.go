package skin

import "fmt"

// Method is the broad treatment category. The set is closed: catalog data naming
// any other method is rejected when it is loaded.
type Method int

const (
	MethodUnknown Method = iota
	SkincareCosmetics
	Peels
	Massage
	Taping
	HardwareCosmetology
	InjectableCosmetology
)

type treatmentType struct {
	name  string
	label string
}

type methodSpec struct {
	name       string
	label      string
	complexity int
	types      []treatmentType
}

var methodSpecs = [...]methodSpec{
	MethodUnknown: {name: "Unknown", complexity: 1},
	SkincareCosmetics: {
		name: "Skincare Cosmetics", label: "Уходовая косметика", complexity: 1,
		types: []treatmentType{
			{"Cream", "Крем"}, {"Toner", "Тоник"}, {"Serum", "Сыворотка"},
			{"Peel", "Пилинг"}, {"Mask", "Маска"}, {"Scrub", "Скраб"},
			{"Gel", "Гель"}, {"Patches", "Патчи"}, {"Soap", "Мыло"},
		},
	},
	Peels: {
		name: "Peels", label: "Пилинги", complexity: 2,
		types: []treatmentType{
			{"Superficial", "Поверхностный"}, {"Medium", "Срединный"}, {"Deep", "Глубокий"},
		},
	},
	Massage: {
		name: "Massage", label: "Массаж", complexity: 2,
		types: []treatmentType{
			{"Classic", "Классический"}, {"Lymphatic Drainage", "Лимфодренажный"},
			{"Sculpting", "Скульптурный"}, {"Buccal", "Буккальный"},
			{"Myofascial", "Миофасциальный"},
		},
	},
	Taping: {
		name: "Taping", label: "Тейпирование", complexity: 2,
		types: []treatmentType{
			{"Lymphatic Drainage", "Лимфодренажное"}, {"Lifting", "Лифтинговое"},
			{"Relaxing", "Расслабляющее"},
		},
	},
	HardwareCosmetology: {
		name: "Hardware Cosmetology", label: "Аппаратная косметология", complexity: 3,
		types: []treatmentType{
			{"RF Lifting", "RF-лифтинг"}, {"Microcurrents", "Микротоки"},
			{"Ultrasonic Cleansing", "Ультразвуковая чистка"},
			{"Photorejuvenation", "Фотоомоложение"}, {"Laser Therapy", "Лазерная терапия"},
		},
	},
	InjectableCosmetology: {
		name: "Injectable Cosmetology", label: "Инъекционная косметология", complexity: 5,
		types: []treatmentType{
			{"Mesotherapy", "Мезотерапия"}, {"Biorevitalization", "Биоревитализация"},
			{"Botulinum Therapy", "Ботулинотерапия"}, {"Contour Plastics", "Контурная пластика"},
		},
	},
}

var (
	methodByKey = make(map[string]Method)
	typeByKey   = make(map[Method]map[string]string)
)

func init() {
	for _, m := range Methods() {
		spec := methodSpecs[m]
		methodByKey[Normalize(spec.name)] = m
		methodByKey[Normalize(spec.label)] = m

		types := make(map[string]string, 2*len(spec.types))
		for _, t := range spec.types {
			types[Normalize(t.name)] = t.name
			types[Normalize(t.label)] = t.name
		}
		typeByKey[m] = types
	}
}

// Methods returns every known method in complexity order.
func Methods() []Method {
	return []Method{SkincareCosmetics, Peels, Massage, Taping, HardwareCosmetology, InjectableCosmetology}
}

// ParseMethod resolves a canonical method name or its Russian label.
func ParseMethod(s string) (Method, error) {
	if m, ok := methodByKey[Normalize(s)]; ok {
		return m, nil
	}
	return MethodUnknown, fmt.Errorf("unknown method %q", s)
}

func (m Method) spec() methodSpec {
	if m < 0 || int(m) >= len(methodSpecs) {
		return methodSpecs[MethodUnknown]
	}
	return methodSpecs[m]
}

func (m Method) String() string { return m.spec().name }

// Label returns the Russian name used by the original catalog data.
func (m Method) Label() string { return m.spec().label }

// Complexity is the fixed weight fed to the scoring strategies. Unknown methods
// weigh 1.
func (m Method) Complexity() int { return m.spec().complexity }

// Types returns the canonical sub-type names allowed for the method.
func (m Method) Types() []string {
	spec := m.spec()
	out := make([]string, len(spec.types))
	for i, t := range spec.types {
		out[i] = t.name
	}
	return out
}

// CanonicalType maps a sub-type name or label to its canonical name. It reports
// false when the type is outside the method's vocabulary.
func (m Method) CanonicalType(s string) (string, bool) {
	name, ok := typeByKey[m][Normalize(s)]
	return name, ok
}

// CanonicalTypeName resolves a sub-type name or label without knowing its
// method. Types shared by two methods resolve to the same canonical name.
func CanonicalTypeName(s string) (string, bool) {
	key := Normalize(s)
	for _, m := range Methods() {
		if name, ok := typeByKey[m][key]; ok {
			return name, true
		}
	}
	return "", false
}

func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	parsed, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
