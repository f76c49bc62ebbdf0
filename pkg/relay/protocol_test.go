package relay

import (
	"encoding/json"
	"testing"
)

func TestResolveCommand_SignalMapping(t *testing.T) {
	tests := []struct {
		signalType string
		wantAction string
	}{
		{"user_left_after_speaking", "wave"},
		{"wave_hand", "wave"},
		{"thumbs_up", "thumbs_up"},
		{"greet", "greet"},
		{"celebrate", "celebrate"},
		{"point", "point"},
		{"nod", "nod"},
		{"home", "home"},
	}

	for _, tt := range tests {
		cmd, ok := ResolveCommand(SignalEnvelope{SignalType: tt.signalType})
		if !ok {
			t.Errorf("%s: expected resolution", tt.signalType)
			continue
		}
		if cmd.Action != tt.wantAction {
			t.Errorf("%s: got action %q, want %q", tt.signalType, cmd.Action, tt.wantAction)
		}
	}
}

func TestResolveCommand_DataFallthrough(t *testing.T) {
	env := SignalEnvelope{
		SignalType: "manual",
		Data: CommandData{
			Action:      "move_to",
			Coordinates: []float64{150, 0, 150, 0, 90, 0},
			Speed:       Speed{Value: 30},
		},
	}

	cmd, ok := ResolveCommand(env)
	if !ok {
		t.Fatal("expected resolution from data block")
	}
	if cmd.Action != "move_to" {
		t.Errorf("action: got %q, want move_to", cmd.Action)
	}
	if len(cmd.Coordinates) != 6 {
		t.Errorf("coordinates: got %d values, want 6", len(cmd.Coordinates))
	}
	if cmd.Speed != 30 {
		t.Errorf("speed: got %d, want 30", cmd.Speed)
	}
}

func TestResolveCommand_Missing(t *testing.T) {
	_, ok := ResolveCommand(SignalEnvelope{SignalType: "mystery"})
	if ok {
		t.Error("expected no resolution for unknown signal with empty data")
	}
}

func TestSpeed_UnmarshalJSON(t *testing.T) {
	var data CommandData
	if err := json.Unmarshal([]byte(`{"action":"wave","speed":"fast"}`), &data); err != nil {
		t.Fatalf("unmarshal word speed: %v", err)
	}
	if data.Speed.Word != "fast" {
		t.Errorf("word: got %q, want fast", data.Speed.Word)
	}

	data = CommandData{}
	if err := json.Unmarshal([]byte(`{"action":"send_angles","speed":30}`), &data); err != nil {
		t.Fatalf("unmarshal numeric speed: %v", err)
	}
	if data.Speed.Value != 30 {
		t.Errorf("value: got %d, want 30", data.Speed.Value)
	}
}

func TestSpeed_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Speed{Word: "fast"})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"fast"` {
		t.Errorf("word marshal: got %s", b)
	}

	b, err = json.Marshal(Speed{Value: 30})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "30" {
		t.Errorf("numeric marshal: got %s", b)
	}
}
