package core

import "testing"

func TestMapper_Variants(t *testing.T) {
	m := NewMapper(DefaultAliases())

	tests := []struct {
		name   string
		header string
		want   Field
	}{
		{"exact lowercase", "business name", FieldBusinessName},
		{"title case", "Business Name", FieldBusinessName},
		{"upper case", "BUSINESS NAME", FieldBusinessName},
		{"underscores", "business_name", FieldBusinessName},
		{"extra whitespace", "  Business   Name  ", FieldBusinessName},
		{"slash variant", "City/Municipality", FieldCityMunicipality},
		{"parenthesized", "E-commerce (Y/N)", FieldEcommerce},
		{"question mark", "With E-Commerce?", FieldEcommerce},
		{"gender alias sex", "Sex", FieldGender},
		{"industry alias", "Priority Industry Cluster", FieldPriorityIndustry},
		{"date of assistance", "Date of Assistance", FieldAssistanceDate},
		{"assisted by", "Assisted By", FieldAssistedBy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Map(tt.header)
			if !ok {
				t.Fatalf("Map(%q) unmapped, want %q", tt.header, tt.want)
			}
			if got != tt.want {
				t.Errorf("Map(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestMapper_Unmapped(t *testing.T) {
	m := NewMapper(DefaultAliases())

	for _, header := range []string{"Favorite Color", "Remarks???", "", "123"} {
		if f, ok := m.Map(header); ok {
			t.Errorf("Map(%q) = %q, want unmapped", header, f)
		}
	}
}

// Identical input must always map identically: the mapper holds no state.
func TestMapper_Deterministic(t *testing.T) {
	m := NewMapper(DefaultAliases())

	first, ok1 := m.Map("Type of Assistance")
	for i := 0; i < 100; i++ {
		got, ok := m.Map("Type of Assistance")
		if ok != ok1 || got != first {
			t.Fatalf("Map() not deterministic: got %q/%v, want %q/%v", got, ok, first, ok1)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Business Name", "business name"},
		{"E-Commerce (Y/N)?", "e commerce y n"},
		{"  spaced   out  ", "spaced out"},
		{"ALL_CAPS_HEADER", "all caps header"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
