package itinerary

import (
	"testing"

	"github.com/Prinsessen/KML-City-Extractor/internal/model"
)

func cityLabel(city string) model.LocationLabel {
	return model.LocationLabel{City: city, Source: model.SourceOffline}
}

func admitted(t *testing.T, f *Filter, labels []model.LocationLabel, mode KeyMode) []string {
	t.Helper()
	var out []string
	for _, l := range labels {
		if f.Admit(Key(l, mode)) {
			out = append(out, l.City)
		}
	}
	return out
}

func TestConsecutiveSuppression(t *testing.T) {
	labels := []model.LocationLabel{
		cityLabel("A"), cityLabel("A"), cityLabel(""), cityLabel(""), cityLabel("B"), cityLabel("A"),
	}

	got := admitted(t, NewFilter(false), labels, KeyCity)
	want := []string{"A", "", "B", "A"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGlobalUnique(t *testing.T) {
	labels := []model.LocationLabel{cityLabel("A"), cityLabel("B"), cityLabel("A")}

	got := admitted(t, NewFilter(true), labels, KeyCity)
	want := []string{"A", "B"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRoundTripReadmitted(t *testing.T) {
	// X -> Y -> X is three rows with consecutive-only dedup
	labels := []model.LocationLabel{cityLabel("X"), cityLabel("Y"), cityLabel("X")}

	got := admitted(t, NewFilter(false), labels, KeyCity)
	if len(got) != 3 {
		t.Fatalf("expected round trip to keep 3 rows, got %v", got)
	}
}

func TestKeyModes(t *testing.T) {
	liscor1 := model.LocationLabel{City: "Springfield", Admin: "Illinois", Country: "US"}
	liscor2 := model.LocationLabel{City: "Springfield", Admin: "Missouri", Country: "US"}

	if Key(liscor1, KeyCity) != Key(liscor2, KeyCity) {
		t.Error("city mode should treat same-name cities as duplicates")
	}
	if Key(liscor1, KeyCityAdminCountry) == Key(liscor2, KeyCityAdminCountry) {
		t.Error("city_admin_country mode should distinguish different admins")
	}
}

func TestKeyNormalization(t *testing.T) {
	a := model.LocationLabel{City: "  Paris "}
	b := model.LocationLabel{City: "paris"}
	if Key(a, KeyCity) != Key(b, KeyCity) {
		t.Error("keys should be trimmed and lowercased")
	}
}

func TestSuppressionLeavesLastKeyUnchanged(t *testing.T) {
	f := NewFilter(true)
	if !f.Admit("a") {
		t.Fatal("first key should be admitted")
	}
	if f.Admit("a") {
		t.Fatal("repeat key should be suppressed")
	}
	// global mode already saw "a"; a fresh key is still admitted
	if !f.Admit("b") {
		t.Fatal("new key should be admitted")
	}
	if f.Admit("a") {
		t.Fatal("global mode should suppress a previously emitted key")
	}
}

func TestKeyModeValid(t *testing.T) {
	if !KeyCity.Valid() || !KeyCityAdminCountry.Valid() {
		t.Error("built-in modes should be valid")
	}
	if KeyMode("postcode").Valid() {
		t.Error("unknown mode should be invalid")
	}
}
