package physics

import "math"

// FourVector is the minimal accessor set shared by the two 4-momentum
// representations below. The angular coordinates are the usual collider
// parameterization: transverse momentum, pseudorapidity, azimuthal angle.
type FourVector interface {
	Pt() float64
	Eta() float64
	Phi() float64
	E() float64
	M() float64
}

// PtEtaPhiE is a 4-momentum in (pt, eta, phi, energy) coordinates.
type PtEtaPhiE struct {
	pt  float64
	eta float64
	phi float64
	e   float64
}

func NewPtEtaPhiE(pt, eta, phi, e float64) PtEtaPhiE {
	return PtEtaPhiE{pt: pt, eta: eta, phi: phi, e: e}
}

func (v PtEtaPhiE) Pt() float64  { return v.pt }
func (v PtEtaPhiE) Eta() float64 { return v.eta }
func (v PtEtaPhiE) Phi() float64 { return v.phi }
func (v PtEtaPhiE) E() float64   { return v.e }

// M returns the invariant mass, sqrt(E^2 - p^2). Spacelike vectors
// (E^2 < p^2) yield the negative of the magnitude, matching the usual
// convention for mis-measured momenta.
func (v PtEtaPhiE) M() float64 {
	m2 := v.e*v.e - v.P()*v.P()
	if m2 < 0 {
		return -math.Sqrt(-m2)
	}
	return math.Sqrt(m2)
}

func (v PtEtaPhiE) Px() float64 { return v.pt * math.Cos(v.phi) }
func (v PtEtaPhiE) Py() float64 { return v.pt * math.Sin(v.phi) }
func (v PtEtaPhiE) Pz() float64 { return v.pt * math.Sinh(v.eta) }

// P returns the magnitude of the 3-momentum.
func (v PtEtaPhiE) P() float64 { return v.pt * math.Cosh(v.eta) }

// PtEtaPhiM is a 4-momentum in (pt, eta, phi, mass) coordinates.
type PtEtaPhiM struct {
	pt   float64
	eta  float64
	phi  float64
	mass float64
}

func NewPtEtaPhiM(pt, eta, phi, mass float64) PtEtaPhiM {
	return PtEtaPhiM{pt: pt, eta: eta, phi: phi, mass: mass}
}

func (v PtEtaPhiM) Pt() float64  { return v.pt }
func (v PtEtaPhiM) Eta() float64 { return v.eta }
func (v PtEtaPhiM) Phi() float64 { return v.phi }
func (v PtEtaPhiM) M() float64   { return v.mass }

func (v PtEtaPhiM) E() float64 {
	p := v.P()
	return math.Sqrt(p*p + v.mass*v.mass)
}

func (v PtEtaPhiM) Px() float64 { return v.pt * math.Cos(v.phi) }
func (v PtEtaPhiM) Py() float64 { return v.pt * math.Sin(v.phi) }
func (v PtEtaPhiM) Pz() float64 { return v.pt * math.Sinh(v.eta) }
func (v PtEtaPhiM) P() float64  { return v.pt * math.Cosh(v.eta) }

// WithMass builds a (pt, eta, phi, mass) vector from any 4-momentum,
// keeping pt, eta and phi exactly and replacing the fourth component
// with the given mass. It is a coordinate substitution, not a boost.
func WithMass(p FourVector, mass float64) PtEtaPhiM {
	return NewPtEtaPhiM(p.Pt(), p.Eta(), p.Phi(), mass)
}

// Add sums two 4-momenta in cartesian form and returns the result in
// (pt, eta, phi, mass) coordinates.
func Add(a, b FourVector) PtEtaPhiM {
	ax, ay, az, ae := cartesian(a)
	bx, by, bz, be := cartesian(b)
	return fromCartesian(ax+bx, ay+by, az+bz, ae+be)
}

// InvariantMass returns the mass of the summed system of two 4-momenta.
func InvariantMass(a, b FourVector) float64 {
	return Add(a, b).M()
}

// DeltaPhi returns the azimuthal separation of two angles, folded
// into (-pi, pi].
func DeltaPhi(phi1, phi2 float64) float64 {
	d := math.Mod(phi1-phi2, 2*math.Pi)
	switch {
	case d > math.Pi:
		d -= 2 * math.Pi
	case d <= -math.Pi:
		d += 2 * math.Pi
	}
	return d
}

// DeltaR returns the angular separation sqrt(deta^2 + dphi^2) of two
// 4-momenta.
func DeltaR(a, b FourVector) float64 {
	deta := a.Eta() - b.Eta()
	dphi := DeltaPhi(a.Phi(), b.Phi())
	return math.Hypot(deta, dphi)
}

func cartesian(v FourVector) (px, py, pz, e float64) {
	pt := v.Pt()
	return pt * math.Cos(v.Phi()), pt * math.Sin(v.Phi()), pt * math.Sinh(v.Eta()), v.E()
}

func fromCartesian(px, py, pz, e float64) PtEtaPhiM {
	pt := math.Hypot(px, py)
	p := math.Sqrt(px*px + py*py + pz*pz)
	eta := 0.0
	if pt > 0 {
		eta = math.Asinh(pz / pt)
	} else if pz != 0 {
		eta = math.Inf(1)
		if pz < 0 {
			eta = math.Inf(-1)
		}
	}
	phi := math.Atan2(py, px)
	m2 := e*e - p*p
	m := math.Sqrt(math.Abs(m2))
	if m2 < 0 {
		m = -m
	}
	return NewPtEtaPhiM(pt, eta, phi, m)
}
