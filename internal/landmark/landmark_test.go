package landmark

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestNewHandLandmarks(t *testing.T) {
	t.Run("accepts exactly 21 points", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		for i := range points {
			points[i] = Point3D{X: float64(i) / 100, Y: 0.5, Z: 0}
		}

		hand, err := NewHandLandmarks(points, Left, 0.8)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hand.Handedness != Left {
			t.Errorf("expected handedness Left, got %s", hand.Handedness)
		}
		if hand.Points[PinkyTip].X != 0.2 {
			t.Errorf("expected pinky tip X 0.2, got %f", hand.Points[PinkyTip].X)
		}
	})

	t.Run("rejects wrong cardinality", func(t *testing.T) {
		for _, n := range []int{0, 20, 22} {
			_, err := NewHandLandmarks(make([]Point3D, n), Right, 1)
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("%d points: expected ErrMalformedInput, got %v", n, err)
			}
		}
	})

	t.Run("rejects non-finite coordinates", func(t *testing.T) {
		points := make([]Point3D, NumLandmarks)
		points[IndexTip].Y = math.NaN()

		_, err := NewHandLandmarks(points, Right, 1)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("expected ErrMalformedInput, got %v", err)
		}
	})

	t.Run("rejects unknown handedness", func(t *testing.T) {
		_, err := NewHandLandmarks(make([]Point3D, NumLandmarks), "Both", 1)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("expected ErrMalformedInput, got %v", err)
		}
	})
}

func TestParseHandedness(t *testing.T) {
	tests := []struct {
		in      string
		want    Handedness
		wantErr bool
	}{
		{in: "Left", want: Left},
		{in: "Right", want: Right},
		{in: "left", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseHandedness(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMalformedInput) {
				t.Errorf("ParseHandedness(%q): expected ErrMalformedInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseHandedness(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestHandLandmarks_UnmarshalJSON(t *testing.T) {
	t.Run("round trips a full set", func(t *testing.T) {
		data, err := json.Marshal(HelloLandmarks())
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		var hand HandLandmarks
		if err := json.Unmarshal(data, &hand); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if hand != HelloLandmarks() {
			t.Error("decoded landmarks differ from the original")
		}
	})

	t.Run("short point list fails loudly", func(t *testing.T) {
		payload := `{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Right","score":0.9}`

		var hand HandLandmarks
		err := json.Unmarshal([]byte(payload), &hand)
		if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("expected ErrMalformedInput, got %v", err)
		}
	})
}

func TestDistance(t *testing.T) {
	d := Distance(Point3D{X: 0, Y: 0, Z: 0}, Point3D{X: 3, Y: 4, Z: 0})
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("expected distance 5, got %f", d)
	}
}

func TestPresetLandmarks(t *testing.T) {
	presets := map[string]HandLandmarks{
		"yes":        YesLandmarks(),
		"no":         NoLandmarks(),
		"hello":      HelloLandmarks(),
		"thank you":  ThankYouLandmarks(),
		"i love you": ILoveYouLandmarks(),
		"please":     PleaseLandmarks(),
		"fist":       FistLandmarks(),
	}

	for name, hand := range presets {
		t.Run(name+" is valid", func(t *testing.T) {
			if err := hand.Validate(); err != nil {
				t.Errorf("preset should validate, got %v", err)
			}
		})
	}

	t.Run("fingers are ordered right to left from index to pinky", func(t *testing.T) {
		h := HelloLandmarks()
		if h.Points[PinkyMCP].X >= h.Points[RingMCP].X ||
			h.Points[RingMCP].X >= h.Points[MiddleMCP].X ||
			h.Points[MiddleMCP].X >= h.Points[IndexMCP].X {
			t.Error("MCP joints should be ordered pinky < ring < middle < index in X")
		}
	})

	t.Run("joints are interpolated between MCP and tip", func(t *testing.T) {
		h := NoLandmarks()
		mcp, pip, tip := h.Points[IndexMCP].Y, h.Points[IndexPIP].Y, h.Points[IndexTip].Y
		if !(tip < pip && pip < mcp) {
			t.Errorf("expected tip < pip < mcp in Y, got %f %f %f", tip, pip, mcp)
		}
	})
}
