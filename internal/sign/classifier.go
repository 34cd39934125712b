package sign

import (
	"errors"
	"math"

	"github.com/ayusman/signscribe/internal/landmark"
)

// Thresholds are the geometric calibration constants used by the classifier.
// All values are in normalized image units; y grows downwards.
type Thresholds struct {
	// ExtendedMargin: a finger is extended when tip.y < mcp.y - ExtendedMargin.
	ExtendedMargin float64 `yaml:"extended_margin" json:"extended_margin"`
	// CurledMargin: a finger is curled when tip.y > mcp.y - CurledMargin.
	// Fingers between the two margins are neither.
	CurledMargin float64 `yaml:"curled_margin" json:"curled_margin"`

	HelloLevel     float64 `yaml:"hello_level" json:"hello_level"`
	ThankYouLevel  float64 `yaml:"thank_you_level" json:"thank_you_level"`
	ThankYouSpread float64 `yaml:"thank_you_spread" json:"thank_you_spread"`
	PleaseLevel    float64 `yaml:"please_level" json:"please_level"`
	PleaseWristY   float64 `yaml:"please_wrist_y" json:"please_wrist_y"`

	// MirrorLeft flips the Hello thumb-splay comparison for left hands.
	MirrorLeft bool `yaml:"mirror_left" json:"mirror_left"`
}

// DefaultThresholds returns the calibrated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ExtendedMargin: 0.1,
		CurledMargin:   0.05,
		HelloLevel:     0.05,
		ThankYouLevel:  0.05,
		ThankYouSpread: 0.04,
		PleaseLevel:    0.04,
		PleaseWristY:   0.6,
	}
}

// Validate checks that the thresholds describe a usable classifier.
func (t Thresholds) Validate() error {
	for _, v := range []float64{t.ExtendedMargin, t.CurledMargin, t.HelloLevel, t.ThankYouLevel, t.ThankYouSpread, t.PleaseLevel} {
		if !(v > 0) || math.IsInf(v, 0) {
			return errors.New("thresholds: margins and tolerances must be positive")
		}
	}
	if t.CurledMargin > t.ExtendedMargin {
		return errors.New("thresholds: curled margin must not exceed extended margin")
	}
	if !(t.PleaseWristY >= 0 && t.PleaseWristY <= 1) {
		return errors.New("thresholds: please wrist y must be within [0, 1]")
	}
	return nil
}

type finger int

const (
	thumb finger = iota
	index
	middle
	ring
	pinky
)

var fingerJoints = [...]struct{ mcp, tip int }{
	thumb:  {landmark.ThumbMCP, landmark.ThumbTip},
	index:  {landmark.IndexMCP, landmark.IndexTip},
	middle: {landmark.MiddleMCP, landmark.MiddleTip},
	ring:   {landmark.RingMCP, landmark.RingTip},
	pinky:  {landmark.PinkyMCP, landmark.PinkyTip},
}

// fingertips from index to pinky, used by the level and together checks.
var fingertips = [...]int{landmark.IndexTip, landmark.MiddleTip, landmark.RingTip, landmark.PinkyTip}

// features are the per-frame predicates every rule is built from.
type features struct {
	hand     *landmark.HandLandmarks
	t        *Thresholds
	extended [5]bool
	curled   [5]bool
}

func extract(hand *landmark.HandLandmarks, t *Thresholds) *features {
	f := &features{hand: hand, t: t}
	for i, j := range fingerJoints {
		tip, mcp := hand.Points[j.tip].Y, hand.Points[j.mcp].Y
		f.extended[i] = tip < mcp-t.ExtendedMargin
		f.curled[i] = tip > mcp-t.CurledMargin
	}
	return f
}

func (f *features) allExtended(fs ...finger) bool {
	for _, x := range fs {
		if !f.extended[x] {
			return false
		}
	}
	return true
}

func (f *features) noneExtended(fs ...finger) bool {
	for _, x := range fs {
		if f.extended[x] {
			return false
		}
	}
	return true
}

func (f *features) allCurled(fs ...finger) bool {
	for _, x := range fs {
		if !f.curled[x] {
			return false
		}
	}
	return true
}

// level reports whether adjacent fingertips differ in height by less than tol.
func (f *features) level(tol float64) bool {
	for i := 1; i < len(fingertips); i++ {
		a, b := f.hand.Points[fingertips[i-1]], f.hand.Points[fingertips[i]]
		if math.Abs(a.Y-b.Y) >= tol {
			return false
		}
	}
	return true
}

// together reports whether adjacent fingertips are closer than tol in 3-D.
func (f *features) together(tol float64) bool {
	for i := 1; i < len(fingertips); i++ {
		if landmark.Distance(f.hand.Points[fingertips[i-1]], f.hand.Points[fingertips[i]]) >= tol {
			return false
		}
	}
	return true
}

func (f *features) thumbSplayed() bool {
	tip, ip := f.hand.Points[landmark.ThumbTip].X, f.hand.Points[landmark.ThumbIP].X
	if f.t.MirrorLeft && f.hand.Handedness == landmark.Left {
		return tip < ip
	}
	return tip > ip
}

func (f *features) fourFingersUp() bool {
	return f.allExtended(index, middle, ring, pinky)
}

type rule struct {
	label Label
	match func(f *features) bool
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{Yes, func(f *features) bool {
		return f.extended[thumb] && f.allCurled(index, middle, ring, pinky)
	}},
	{No, func(f *features) bool {
		return f.extended[index] && f.noneExtended(middle, ring, pinky, thumb)
	}},
	{Hello, func(f *features) bool {
		return f.fourFingersUp() && f.level(f.t.HelloLevel) && f.thumbSplayed()
	}},
	{ThankYou, func(f *features) bool {
		return f.fourFingersUp() && f.level(f.t.ThankYouLevel) && f.together(f.t.ThankYouSpread)
	}},
	{ILoveYou, func(f *features) bool {
		return f.allExtended(index, pinky) && f.noneExtended(middle, ring) && f.extended[thumb]
	}},
	{Please, func(f *features) bool {
		return f.fourFingersUp() && f.level(f.t.PleaseLevel) && f.hand.Points[landmark.Wrist].Y > f.t.PleaseWristY
	}},
}

// Classifier maps a single hand pose to a gesture label. It holds no
// per-frame state and is safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(t Thresholds) (*Classifier, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{thresholds: t}, nil
}

var defaultClassifier = &Classifier{thresholds: DefaultThresholds()}

// Classify classifies a hand with the default thresholds.
func Classify(hand landmark.HandLandmarks) Label {
	return defaultClassifier.Classify(hand)
}

// Thresholds returns the thresholds in use.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Rules returns the labels in the order their rules are evaluated.
func (c *Classifier) Rules() []Label {
	labels := make([]Label, len(rules))
	for i, r := range rules {
		labels[i] = r.label
	}
	return labels
}

// Classify returns the first label whose rule matches, or None.
// Callers are expected to have validated the hand; see landmark.HandLandmarks.Validate.
func (c *Classifier) Classify(hand landmark.HandLandmarks) Label {
	f := extract(&hand, &c.thresholds)
	for _, r := range rules {
		if r.match(f) {
			return r.label
		}
	}
	return None
}

// ClassifyPoints classifies a variable-length point list, rejecting anything
// that is not a complete landmark set with landmark.ErrMalformedInput.
func (c *Classifier) ClassifyPoints(points []landmark.Point3D, handedness landmark.Handedness) (Label, error) {
	hand, err := landmark.NewHandLandmarks(points, handedness, 0)
	if err != nil {
		return None, err
	}
	return c.Classify(hand), nil
}
