package landmark

// Preset handshapes are right hands seen from the camera, wrist at the
// bottom of the frame. Only tips, thumb joints and wrist drive classification;
// PIP and DIP joints are interpolated along each finger.

func palm() HandLandmarks {
	h := HandLandmarks{
		Handedness: Right,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.75, Z: 0.0}
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.60, Z: -0.01}
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.58, Z: -0.01}
	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.60, Z: -0.01}
	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.62, Z: -0.01}

	return h
}

// setFinger places a fingertip and spreads PIP/DIP between it and the MCP.
func setFinger(h *HandLandmarks, mcp int, tip Point3D) {
	base := h.Points[mcp]
	lerp := func(t float64) Point3D {
		return Point3D{
			X: base.X + (tip.X-base.X)*t,
			Y: base.Y + (tip.Y-base.Y)*t,
			Z: base.Z + (tip.Z-base.Z)*t,
		}
	}
	h.Points[mcp+1] = lerp(0.4)
	h.Points[mcp+2] = lerp(0.7)
	h.Points[mcp+3] = tip
}

func setThumb(h *HandLandmarks, mcp, ip, tip Point3D) {
	h.Points[ThumbMCP] = mcp
	h.Points[ThumbIP] = ip
	h.Points[ThumbTip] = tip
}

func curlFingers(h *HandLandmarks, mcps ...int) {
	curled := map[int]Point3D{
		IndexMCP:  {X: 0.53, Y: 0.63, Z: -0.04},
		MiddleMCP: {X: 0.49, Y: 0.61, Z: -0.04},
		RingMCP:   {X: 0.45, Y: 0.63, Z: -0.04},
		PinkyMCP:  {X: 0.41, Y: 0.65, Z: -0.04},
	}
	for _, mcp := range mcps {
		setFinger(h, mcp, curled[mcp])
	}
}

func thumbUp(h *HandLandmarks) {
	setThumb(h,
		Point3D{X: 0.60, Y: 0.68, Z: 0.0},
		Point3D{X: 0.61, Y: 0.55, Z: 0.0},
		Point3D{X: 0.61, Y: 0.45, Z: 0.0},
	)
}

func thumbTucked(h *HandLandmarks) {
	setThumb(h,
		Point3D{X: 0.58, Y: 0.68, Z: 0.0},
		Point3D{X: 0.56, Y: 0.62, Z: -0.01},
		Point3D{X: 0.53, Y: 0.60, Z: -0.02},
	)
}

func thumbSplayed(h *HandLandmarks) {
	setThumb(h,
		Point3D{X: 0.62, Y: 0.70, Z: 0.02},
		Point3D{X: 0.68, Y: 0.64, Z: 0.03},
		Point3D{X: 0.74, Y: 0.60, Z: 0.03},
	)
}

// YesLandmarks returns a thumbs-up: thumb extended, other fingers curled.
func YesLandmarks() HandLandmarks {
	h := palm()
	thumbUp(&h)
	curlFingers(&h, IndexMCP, MiddleMCP, RingMCP, PinkyMCP)
	return h
}

// NoLandmarks returns a pointing index finger with the thumb tucked.
func NoLandmarks() HandLandmarks {
	h := palm()
	thumbTucked(&h)
	setFinger(&h, IndexMCP, Point3D{X: 0.56, Y: 0.34, Z: 0.0})
	curlFingers(&h, MiddleMCP, RingMCP, PinkyMCP)
	return h
}

// HelloLandmarks returns an open palm with level fingertips and the thumb splayed out.
func HelloLandmarks() HandLandmarks {
	h := palm()
	thumbSplayed(&h)
	setFinger(&h, IndexMCP, Point3D{X: 0.56, Y: 0.34, Z: 0.0})
	setFinger(&h, MiddleMCP, Point3D{X: 0.50, Y: 0.32, Z: 0.0})
	setFinger(&h, RingMCP, Point3D{X: 0.44, Y: 0.34, Z: 0.0})
	setFinger(&h, PinkyMCP, Point3D{X: 0.38, Y: 0.36, Z: 0.0})
	return h
}

// ThankYouLandmarks returns a flat hand with fingers pressed together and the thumb tucked.
func ThankYouLandmarks() HandLandmarks {
	h := palm()
	thumbTucked(&h)
	setFinger(&h, IndexMCP, Point3D{X: 0.53, Y: 0.34, Z: 0.0})
	setFinger(&h, MiddleMCP, Point3D{X: 0.50, Y: 0.33, Z: 0.0})
	setFinger(&h, RingMCP, Point3D{X: 0.47, Y: 0.34, Z: 0.0})
	setFinger(&h, PinkyMCP, Point3D{X: 0.44, Y: 0.35, Z: 0.0})
	return h
}

// ILoveYouLandmarks returns thumb, index and pinky extended with middle and ring curled.
func ILoveYouLandmarks() HandLandmarks {
	h := palm()
	setThumb(&h,
		Point3D{X: 0.62, Y: 0.70, Z: 0.02},
		Point3D{X: 0.68, Y: 0.60, Z: 0.03},
		Point3D{X: 0.72, Y: 0.52, Z: 0.03},
	)
	setFinger(&h, IndexMCP, Point3D{X: 0.56, Y: 0.34, Z: 0.0})
	curlFingers(&h, MiddleMCP, RingMCP)
	setFinger(&h, PinkyMCP, Point3D{X: 0.38, Y: 0.38, Z: 0.0})
	return h
}

// PleaseLandmarks returns a spread flat hand held low in the frame with the thumb tucked.
func PleaseLandmarks() HandLandmarks {
	h := palm()
	thumbTucked(&h)
	setFinger(&h, IndexMCP, Point3D{X: 0.58, Y: 0.34, Z: 0.0})
	setFinger(&h, MiddleMCP, Point3D{X: 0.50, Y: 0.32, Z: 0.0})
	setFinger(&h, RingMCP, Point3D{X: 0.42, Y: 0.34, Z: 0.0})
	setFinger(&h, PinkyMCP, Point3D{X: 0.34, Y: 0.36, Z: 0.0})
	return h
}

// FistLandmarks returns a closed fist with the thumb tucked; it matches no gesture.
func FistLandmarks() HandLandmarks {
	h := palm()
	thumbTucked(&h)
	curlFingers(&h, IndexMCP, MiddleMCP, RingMCP, PinkyMCP)
	return h
}
