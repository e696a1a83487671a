package stats

import (
	"encoding/json"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{50, 50},
		{100, 100},
		{101, 100},
		{250, 100},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBundleSetClamps(t *testing.T) {
	b := Bundle{Speed: 95, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 3}
	b.Add(Speed, 10)
	b.Add(Intelligence, -10)
	if b.Speed != 100 {
		t.Fatalf("expected speed 100, got %d", b.Speed)
	}
	if b.Intelligence != 1 {
		t.Fatalf("expected intelligence 1, got %d", b.Intelligence)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBundleValidateRejectsOutOfRange(t *testing.T) {
	b := Bundle{Speed: 0, Stamina: 50, Agility: 50, Temperament: 50, Intelligence: 50}
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for speed 0")
	}
}

func TestBundleMean(t *testing.T) {
	b := Bundle{Speed: 10, Stamina: 20, Agility: 30, Temperament: 40, Intelligence: 50}
	if got := b.Mean(); got != 30 {
		t.Fatalf("expected mean 30, got %v", got)
	}
}

func TestRarityOrderAndScore(t *testing.T) {
	for i, r := range Rarities {
		if r.Score() != i+1 {
			t.Errorf("%s score = %d, want %d", r, r.Score(), i+1)
		}
		if i > 0 && !(Rarities[i-1] < r) {
			t.Errorf("%s should rank above %s", r, Rarities[i-1])
		}
	}
	if Rarity(0).Score() != 1 {
		t.Fatal("invalid rarity should score as Common")
	}
}

func TestRarityJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		R Rarity `json:"r"`
	}{Epic})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"r":"Epic"}` {
		t.Fatalf("unexpected json %s", b)
	}

	var out struct {
		R Rarity `json:"r"`
	}
	if err := json.Unmarshal([]byte(`{"r":"Rare"}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.R != Rare {
		t.Fatalf("expected Rare, got %s", out.R)
	}
	if err := json.Unmarshal([]byte(`{"r":"Mythic"}`), &out); err == nil {
		t.Fatal("expected error for unknown rarity")
	}
}

func TestRarityScan(t *testing.T) {
	var r Rarity
	if err := r.Scan([]byte("Legendary")); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if r != Legendary {
		t.Fatalf("expected Legendary, got %s", r)
	}
	if err := r.Scan(42); err == nil {
		t.Fatal("expected error scanning int")
	}
}
