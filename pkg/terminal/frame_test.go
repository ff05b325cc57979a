package terminal

import "testing"

func TestPeekStateType(t *testing.T) {
	tests := []struct {
		line    string
		want    StateType
		isFrame bool
		wantErr bool
	}{
		{`{"turnInfo":[0,3,-1,0]}`, StateTurn, true, false},
		{`{"turnInfo":[1,3,12,0]}`, StateAction, true, false},
		{`{"turnInfo":[2,40,0,0]}`, StateEnd, true, false},
		{`{"unitInformation":[]}`, 0, false, false},
		{`{"turnInfo":[]}`, 0, true, true},
		{`garbage`, 0, false, true},
	}
	for _, tt := range tests {
		got, isFrame, err := PeekStateType([]byte(tt.line))
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.line, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if isFrame != tt.isFrame || got != tt.want {
			t.Errorf("%s: got (%v, %v), want (%v, %v)", tt.line, got, isFrame, tt.want, tt.isFrame)
		}
	}
}

func TestParseActionFrame(t *testing.T) {
	line := `{"turnInfo":[1,6,14,0],"events":{"breach":[
		[[3,10],1,3,"41",2],
		[[24,13],1,3,"42",1],
		[[5,8],1,3,77,2],
		[[5,8],1,3],
		"nope",
		[[1],1,3,"43",2],
		[[9,4],1,3,"44",3],
		[[6,7],"x",3,"45",2]
	]}}`

	af, err := ParseActionFrame([]byte(line))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if af.Turn != 6 || af.Frame != 14 {
		t.Errorf("expected turn 6 frame 14, got %d/%d", af.Turn, af.Frame)
	}
	if len(af.Breaches) != 4 {
		t.Fatalf("expected 4 well-formed breaches, got %d: %+v", len(af.Breaches), af.Breaches)
	}
	if af.Breaches[0].Owner != Opponent || af.Breaches[0].Location != XY(3, 10) {
		t.Errorf("unexpected first breach %+v", af.Breaches[0])
	}
	if af.Breaches[1].Owner != Self {
		t.Errorf("expected owner 1 to map to self, got %v", af.Breaches[1].Owner)
	}
	if af.Breaches[2].UnitID != "77" {
		t.Errorf("expected numeric id to be stringified, got %q", af.Breaches[2].UnitID)
	}
	if af.Breaches[0].Damage != 1 {
		t.Errorf("expected damage 1, got %v", af.Breaches[0].Damage)
	}
	if b := af.Breaches[3]; b.Location != XY(6, 7) || b.Damage != 0 {
		t.Errorf("expected a non-numeric damage to read as 0, got %+v", b)
	}
}

func TestParseActionFrame_NoEvents(t *testing.T) {
	af, err := ParseActionFrame([]byte(`{"turnInfo":[1,2,0,0]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(af.Breaches) != 0 {
		t.Errorf("expected no breaches, got %d", len(af.Breaches))
	}
	if _, err := ParseActionFrame([]byte(`{"events":`)); err == nil {
		t.Error("expected error on truncated JSON")
	}
}
