package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKeyer_Commutative(t *testing.T) {
	keyer := NewDefaultKeyer()

	// Same content, different construction order
	p1 := Params{}
	p1["service"] = "seo"
	p1["city"] = "Austin"
	p1["state"] = "TX"

	p2 := Params{}
	p2["state"] = "TX"
	p2["city"] = "Austin"
	p2["service"] = "seo"

	k1 := keyer.Key("local-data-card", p1)
	k2 := keyer.Key("local-data-card", p2)
	if k1 != k2 {
		t.Errorf("Keys should be equal for same content:\n  k1=%s\n  k2=%s", k1, k2)
	}
}

func TestKeyer_Format(t *testing.T) {
	got := BuildKey("local-data-card", Params{"state": "TX", "city": "Austin", "service": "seo"})
	want := "local-data-card:city:Austin|service:seo|state:TX"
	if got != want {
		t.Errorf("BuildKey = %q, want %q", got, want)
	}
}

func TestKeyer_UndefinedSentinel(t *testing.T) {
	var absent *string
	got := BuildKey("proof-slot", Params{"city": nil, "type": "team", "industry": absent})
	want := "proof-slot:city:undefined|industry:undefined|type:team"
	if got != want {
		t.Errorf("BuildKey = %q, want %q", got, want)
	}
}

func TestKeyer_TypedNilIsUndefined(t *testing.T) {
	var count *int
	var when *time.Time
	got := BuildKey("proof-slot", Params{"count": count, "when": when})
	want := "proof-slot:count:undefined|when:undefined"
	if got != want {
		t.Errorf("BuildKey = %q, want %q", got, want)
	}

	n := 3
	if got := BuildKey("proof-slot", Params{"count": &n}); got == "proof-slot:count:undefined" {
		t.Errorf("non-nil pointer rendered as %q", got)
	}
}

func TestKeyer_SeparatorsInValuesDoNotCollide(t *testing.T) {
	tests := []struct {
		name string
		a, b Params
	}{
		{
			"pipe and colon",
			Params{"city": "A|service:B", "service": "", "state": "TX"},
			Params{"city": "A", "service": "B|service:", "state": "TX"},
		},
		{
			"trailing backslash",
			Params{"city": `A\`, "state": "TX"},
			Params{"city": `A\|state:TX`, "state": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, keyer := range []Keyer{NewDefaultKeyer(), NewHashedKeyer()} {
				if ka, kb := keyer.Key("local-data-card", tt.a), keyer.Key("local-data-card", tt.b); ka == kb {
					t.Errorf("%T: distinct params share key %q", keyer, ka)
				}
			}
		})
	}

	got := BuildKey("local-data-card", Params{"city": `a:b|c\d`})
	if want := `local-data-card:city:a\:b\|c\\d`; got != want {
		t.Errorf("BuildKey = %q, want %q", got, want)
	}
}

func TestKeyer_SingleValueChangeChangesKey(t *testing.T) {
	base := Params{"industry": "legal", "service": "ppc"}
	changed := Params{"industry": "legal", "service": "seo"}

	for _, keyer := range []Keyer{NewDefaultKeyer(), NewHashedKeyer()} {
		if keyer.Key("industry-kpi-map", base) == keyer.Key("industry-kpi-map", changed) {
			t.Errorf("%T: keys should differ when a value changes", keyer)
		}
	}
}

func TestKeyer_BlockTypePrefix(t *testing.T) {
	p := Params{"a": 1}
	if NewDefaultKeyer().Key("x", p) == NewDefaultKeyer().Key("y", p) {
		t.Error("keys for different block types should differ")
	}
}

func TestHashedKeyer_FixedLength(t *testing.T) {
	keyer := NewHashedKeyer()
	long := Params{"blob": strings.Repeat("x", 2*MaxKeyLength)}

	key := keyer.Key("proof-slot", long)
	if err := ValidateKey(key); err != nil {
		t.Errorf("hashed key should be valid, got %v", err)
	}
	if want := len("proof-slot:") + 16; len(key) != want {
		t.Errorf("len(key) = %d, want %d", len(key), want)
	}
	if key != keyer.Key("proof-slot", Params{"blob": strings.Repeat("x", 2*MaxKeyLength)}) {
		t.Error("hashed key should be deterministic")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want error
	}{
		{"valid", "local-data-card:city:Austin", nil},
		{"empty", "", ErrInvalidKey},
		{"whitespace", "   ", ErrInvalidKey},
		{"newline", "a\nb", ErrInvalidKey},
		{"too long", strings.Repeat("k", MaxKeyLength+1), ErrKeyTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateKey(tt.key); got != tt.want {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
