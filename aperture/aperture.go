// Package aperture defines the declarative description of a physical
// aperture: the shape family plus the numeric parameters the rasterizer
// needs to draw its transmission mask.
//
// Descriptors are plain values. They are immutable for the duration of a
// simulation request; the pipeline never writes back into one.
package aperture

import "image"

// Kind identifies the aperture shape family.
type Kind int

const (
	// Pinhole is a single circular opening.
	Pinhole Kind = iota

	// Slit is a single rectangular opening.
	Slit

	// Cross is two perpendicular slits sharing a center.
	Cross

	// Grating is a uniform array of parallel slits.
	Grating

	// ZonePlate is a Fresnel zone plate (see Profile for the zone profile).
	ZonePlate

	// PhotonSieve places discrete pinholes along odd Fresnel zone
	// boundaries instead of continuous rings.
	PhotonSieve

	// Annular is a ring opening between an inner and outer diameter.
	Annular

	// Star is a radial arrangement of wedge-shaped spokes.
	Star

	// MultiDot is a set of circular openings arranged by Pattern.
	MultiDot

	// Fibonacci distributes openings on a golden-angle spiral.
	Fibonacci

	// Carpet is a recursively subdivided square with center cells removed.
	Carpet

	// Sierpinski is a recursively subdivided triangle.
	Sierpinski

	// Coded is a uniformly redundant array built from quadratic residues
	// over the prime Rank.
	Coded

	// Litho is a lithography-style main feature flanked by assist bars.
	Litho

	// Freeform is a stroked polyline path.
	Freeform

	// Bitmap is an imported mask image thresholded to binary.
	Bitmap

	// Curve is a parametric curve (see CurveKind) stroked at StrokeWidthMM.
	Curve
)

var kindNames = [...]string{
	"pinhole", "slit", "cross", "grating", "zoneplate", "photonsieve",
	"annular", "star", "multidot", "fibonacci", "carpet", "sierpinski",
	"coded", "litho", "freeform", "bitmap", "curve",
}

// String returns the lowercase shape name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KindByName resolves a lowercase shape name to its Kind.
// The second result is false if the name is not recognized.
func KindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Profile selects the zone profile of a ZonePlate.
type Profile int

const (
	// ProfileBinary alternates fully open and fully closed zones.
	ProfileBinary Profile = iota

	// ProfileSinusoidal grades transmission as (1+cos(πr²/λf))/2.
	ProfileSinusoidal

	// ProfileSpiral adds the azimuthal angle to the zone phase, producing
	// a spiral zone plate.
	ProfileSpiral
)

// Pattern selects the sub-arrangement of a MultiDot aperture.
type Pattern int

const (
	// PatternRing places dots evenly on a circle.
	PatternRing Pattern = iota

	// PatternGrid places dots on a square lattice.
	PatternGrid

	// PatternConcentric places dots on nested rings.
	PatternConcentric

	// PatternRandom scatters dots with a seeded generator.
	PatternRandom

	// PatternLine places dots on a straight line.
	PatternLine
)

// CurveKind selects the parametric curve of a Curve aperture.
type CurveKind int

const (
	// Lissajous traces x=sin(a·t+φ), y=sin(b·t).
	Lissajous CurveKind = iota

	// Spiral traces an Archimedean spiral.
	Spiral

	// Rosette traces r=cos(k·θ) petals.
	Rosette
)

// Point is a 2D coordinate in millimeters, origin at the optical axis.
type Point struct {
	X, Y float64
}

// Descriptor describes one aperture. Fields not used by the Kind are
// ignored. A descriptor whose required fields are non-positive rasterizes to
// an empty (fully closed) mask rather than failing; see the rasterizer.
type Descriptor struct {
	Kind Kind

	// DiameterMM is the overall opening diameter (or outer diameter for
	// ring-like shapes, edge length for Carpet, main feature width for
	// Litho).
	DiameterMM float64

	// InnerDiameterMM is the inner diameter of Annular and the inner ring
	// of PatternConcentric.
	InnerDiameterMM float64

	// SlitWidthMM and SlitHeightMM size rectangular features (Slit, Cross,
	// Grating elements, Litho bars, MultiDot dot diameter reuses
	// SlitWidthMM when set).
	SlitWidthMM  float64
	SlitHeightMM float64

	// Count is the element count: grating slits, star spokes, multi-dot
	// dots, Fibonacci points, curve petals/lobes.
	Count int

	// SpreadMM is the element spacing or placement radius for multi-element
	// shapes (grating pitch, multi-dot radius, litho assist gap).
	SpreadMM float64

	// RotationRad rotates the whole shape about its center.
	RotationRad float64

	// Zones is the zone count for ZonePlate and PhotonSieve.
	Zones int

	// Profile applies to ZonePlate.
	Profile Profile

	// Pattern applies to MultiDot.
	Pattern Pattern

	// CurveKind, CurveA, CurveB and CurvePhase apply to Curve. CurveA and
	// CurveB are the Lissajous frequencies, the spiral turn count, or the
	// rosette petal factor.
	CurveKind  CurveKind
	CurveA     float64
	CurveB     float64
	CurvePhase float64

	// Iterations bounds recursive subdivision for Carpet and Sierpinski.
	Iterations int

	// Seed feeds the per-descriptor generator of PhotonSieve and
	// PatternRandom. The same seed reproduces the same mask bit for bit.
	Seed uint32

	// Rank is the prime rank of a Coded aperture.
	Rank int

	// AssistCount is the number of assist bars per side for Litho.
	AssistCount int

	// StrokeWidthMM is the stroke width of Freeform and Curve.
	StrokeWidthMM float64

	// Path is the polyline of a Freeform aperture.
	Path []Point

	// Mask is the imported image for Bitmap. Luminance at or above
	// Threshold (0..1) is open; Invert flips that.
	Mask      image.Image
	Threshold float64
	Invert    bool
}
