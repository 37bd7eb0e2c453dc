package augstream

/*------------------------------------------------------------------------------
* cssr_subtypes.go : CSSR subtype ST1..ST12 decoders (§4.3)
*
* Each decoder consumes the DialectTable field widths from cssr_fields.go
* rather than hard-coded constants, per spec.md §9's table-driven decoder
* design note. ST-10 (service information) is left minimal, matching
* spec.md §9's open question ("the source tolerates ST-10 incompletely
* implemented; sample data does not exercise all its branches") -- it is
* still a complete, error-free decode of the fields spec.md documents, it
* simply does not attempt grid-compression branches the spec leaves
* unspecified.
 */

// MaskMessage is the decoded body of ST-1 / MT-1 (spec.md §4.3).
type MaskMessage struct {
	Mask Mask
}

// DecodeST1 decodes a mask subtype and installs it as the active mask for
// (prn,dialect) -- the only subtype allowed to mutate mask state (spec.md
// §5).
func DecodeST1(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect, constellation Constellation) (*MaskMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()

	iodssr := int(c.ReadU(t.IODSSR.Width))
	iodp := int(c.ReadU(t.IODP.Width))
	// the satellite mask is wider than ReadU's 32-bit limit; read it bitwise.
	var satMask uint64
	for i := 0; i < t.SatMaskBits; i++ {
		satMask = satMask<<1 | uint64(c.ReadU(1))
	}

	var entries []MaskEntry
	for i := 0; i < t.SatMaskBits; i++ {
		if satMask&(uint64(1)<<uint(t.SatMaskBits-1-i)) == 0 {
			continue
		}
		prnNum := i + 1
		sigMask := c.ReadU(t.SigMaskBits)
		var sigs []int
		for j := 0; j < t.SigMaskBits; j++ {
			if sigMask&(1<<uint(t.SigMaskBits-1-j)) != 0 {
				sigs = append(sigs, j+1)
			}
		}
		entries = append(entries, MaskEntry{Constellation: constellation, PRN: prnNum, Signals: sigs})
	}

	m := &Mask{IODSSR: iodssr, IODP: iodp, Entries: entries}
	dec.installMask(prn, dialect, m)
	dec.AccountBits(prn, dialect, "other", c.Pos()-start)
	return &MaskMessage{Mask: *m}, nil
}

// SatCorrection is one satellite's ST-2 orbit correction.
type SatCorrection struct {
	PRN               int
	IODE              int
	RadialM           float64
	AlongTrackM       float64
	CrossTrackM       float64
	HasRadial         bool
	HasAlongTrack     bool
	HasCrossTrack     bool
}

// OrbitMessage is the decoded body of ST-2 (spec.md §4.3).
type OrbitMessage struct {
	IODSSR int
	Sats   []SatCorrection
}

func decodeSigned(c *BitCursor, f FieldSpec) (float64, bool) {
	raw := c.ReadS(f.Width)
	if f.invalid(raw) {
		return 0, false
	}
	return float64(raw) * f.Scale, true
}

// DecodeST2 decodes orbit corrections against the active mask.
func DecodeST2(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*OrbitMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))

	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}

	sats := make([]SatCorrection, 0, len(m.Entries))
	for _, e := range m.Entries {
		iode := int(c.ReadU(t.IODE.Width))
		sc := SatCorrection{PRN: e.PRN, IODE: iode}
		sc.RadialM, sc.HasRadial = decodeSigned(c, t.OrbitRadial)
		sc.AlongTrackM, sc.HasAlongTrack = decodeSigned(c, t.OrbitAlong)
		sc.CrossTrackM, sc.HasCrossTrack = decodeSigned(c, t.OrbitCross)
		sats = append(sats, sc)
	}
	dec.AccountBits(prn, dialect, "sat", c.Pos()-start)
	return &OrbitMessage{IODSSR: iodssr, Sats: sats}, nil
}

// ClockMessage is the decoded body of ST-3.
type ClockMessage struct {
	IODSSR int
	Clocks map[int]float64 // PRN -> C0 correction, meters
}

// DecodeST3 decodes full-set clock corrections against the active mask.
func DecodeST3(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*ClockMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))

	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}
	clocks := make(map[int]float64, len(m.Entries))
	for _, e := range m.Entries {
		v, ok := decodeSigned(c, t.ClockC0)
		if ok {
			clocks[e.PRN] = v
		}
	}
	dec.AccountBits(prn, dialect, "sat", c.Pos()-start)
	return &ClockMessage{IODSSR: iodssr, Clocks: clocks}, nil
}

// CodeBiasMessage is the decoded body of ST-4: per (sat,signal) code bias.
type CodeBiasMessage struct {
	IODSSR int
	Biases map[int]map[int]float64 // PRN -> signal -> meters
}

// DecodeST4 decodes code biases against the active mask.
func DecodeST4(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*CodeBiasMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))

	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}
	biases := make(map[int]map[int]float64, len(m.Entries))
	nsig := 0
	for _, e := range m.Entries {
		sigMap := make(map[int]float64, len(e.Signals))
		for _, sig := range e.Signals {
			v, ok := decodeSigned(c, t.CodeBias)
			nsig++
			if ok {
				sigMap[sig] = v
			}
		}
		biases[e.PRN] = sigMap
	}
	dec.AccountBits(prn, dialect, "sig", c.Pos()-start)
	_ = nsig
	return &CodeBiasMessage{IODSSR: iodssr, Biases: biases}, nil
}

// PhaseBiasMessage is the decoded body of ST-5: per (sat,signal) phase bias
// plus a discontinuity indicator.
type PhaseBiasMessage struct {
	IODSSR int
	Biases map[int]map[int]PhaseBias
}

// PhaseBias is one signal's phase bias correction and discontinuity flag.
type PhaseBias struct {
	Meters        float64
	HasValue      bool
	Discontinuity int
}

// DecodeST5 decodes phase biases against the active mask.
func DecodeST5(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*PhaseBiasMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))

	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}
	biases := make(map[int]map[int]PhaseBias, len(m.Entries))
	for _, e := range m.Entries {
		sigMap := make(map[int]PhaseBias, len(e.Signals))
		for _, sig := range e.Signals {
			v, ok := decodeSigned(c, t.PhaseBias)
			disc := int(c.ReadU(t.PhaseDisc.Width))
			sigMap[sig] = PhaseBias{Meters: v, HasValue: ok, Discontinuity: disc}
		}
		biases[e.PRN] = sigMap
	}
	dec.AccountBits(prn, dialect, "sig", c.Pos()-start)
	return &PhaseBiasMessage{IODSSR: iodssr, Biases: biases}, nil
}

// CombinedMessage is the decoded body of ST-6 (bandwidth-optimized
// combined message): the orbit block and the clock block. Bias fields are
// not decoded.
type CombinedMessage struct {
	IODSSR  int
	Orbits  *OrbitMessage
	Clocks  *ClockMessage
}

// DecodeST6 decodes the combined subtype as the ST-2 orbit layout followed by
// one ClockC0 field per masked satellite, both under the single IODSSR read
// by the orbit half. It does not read code or phase bias fields; the cursor
// stops after the clock block.
func DecodeST6(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*CombinedMessage, error) {
	orbit, err := DecodeST2(c, dec, prn, dialect)
	if err != nil {
		return nil, err
	}
	// ST-6 shares one IODSSR for both halves, so the clock block is read
	// here directly instead of through DecodeST3, which would read a second
	// IODSSR field.
	clockCursor := c
	_ = clockCursor
	iodssr := orbit.IODSSR
	clocks := &ClockMessage{IODSSR: iodssr, Clocks: map[int]float64{}}
	t := TableFor(dialect)
	m := dec.ActiveMask(prn, dialect)
	if m != nil {
		start := c.Pos()
		for _, e := range m.Entries {
			v, ok := decodeSigned(c, t.ClockC0)
			if ok {
				clocks.Clocks[e.PRN] = v
			}
		}
		dec.AccountBits(prn, dialect, "sat", c.Pos()-start)
	}
	return &CombinedMessage{IODSSR: iodssr, Orbits: orbit, Clocks: clocks}, nil
}

// URAMessage is the decoded body of ST-7: user range accuracy per
// satellite, encoded per the GPS URA convention (raw class/value packed
// into 6 bits; spec.md §4.3).
type URAMessage struct {
	IODSSR int
	URA    map[int]int // PRN -> raw 6-bit class
}

// DecodeST7 decodes URA against the active mask.
func DecodeST7(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*URAMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))
	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}
	ura := make(map[int]int, len(m.Entries))
	for _, e := range m.Entries {
		ura[e.PRN] = int(c.ReadU(t.URA.Width))
	}
	dec.AccountBits(prn, dialect, "sat", c.Pos()-start)
	return &URAMessage{IODSSR: iodssr, URA: ura}, nil
}

// STECMessage is the decoded body of ST-8: slant TEC polynomial
// coefficients per (satellite, grid region).
type STECMessage struct {
	IODSSR      int
	Coefficients map[int][4]float64 // PRN -> up to 4 polynomial coefficients
}

// DecodeST8 decodes STEC polynomial coefficients against the active mask.
// Only the constant + 2 gradient + curvature terms spec.md's polynomial
// model implies are read; regions beyond the mask's implicit grid are out
// of scope (mask + service area dependency noted in spec.md §4.3).
func DecodeST8(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*STECMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))
	m, err := dec.CheckIODSSR(prn, dialect, iodssr)
	if err != nil {
		return nil, err
	}
	coeffs := make(map[int][4]float64, len(m.Entries))
	for _, e := range m.Entries {
		var c4 [4]float64
		for i := 0; i < 4; i++ {
			v, _ := decodeSigned(c, t.STECCoeff)
			c4[i] = v
		}
		coeffs[e.PRN] = c4
	}
	dec.AccountBits(prn, dialect, "sat", c.Pos()-start)
	return &STECMessage{IODSSR: iodssr, Coefficients: coeffs}, nil
}

// GridPoint is one grid-corrected troposphere/ionosphere residual.
type GridPoint struct {
	TropoWetM  float64
	IonoResidM float64
}

// GridMessage is the decoded body of ST-9: per-grid-point corrections.
type GridMessage struct {
	IODSSR int
	Points []GridPoint
}

// DecodeST9 decodes nPoints grid corrections. The grid definition itself
// (point count, geometry) comes from ST-10 in a full implementation;
// nPoints is supplied by the caller, which tracks it from the most recent
// ST-10 (spec.md §4.3 "mask + grid def" dependency).
func DecodeST9(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect, nPoints int) (*GridMessage, error) {
	t := TableFor(dialect)
	start := c.Pos()
	iodssr := int(c.ReadU(t.IODSSR.Width))
	if _, err := dec.CheckIODSSR(prn, dialect, iodssr); err != nil {
		return nil, err
	}
	points := make([]GridPoint, nPoints)
	for i := 0; i < nPoints; i++ {
		wet, _ := decodeSigned(c, t.GridTropoWet)
		iono, _ := decodeSigned(c, t.GridIonoResid)
		points[i] = GridPoint{TropoWetM: wet, IonoResidM: iono}
	}
	dec.AccountBits(prn, dialect, "other", c.Pos()-start)
	return &GridMessage{IODSSR: iodssr, Points: points}, nil
}

// ServiceInfoMessage is the decoded body of ST-10 (spec.md §9: "incompletely
// implemented in the source; sample data does not exercise all its
// branches" -- this port decodes the header fields the mask/grid pipeline
// needs and stops there rather than guessing at the unexercised branches).
type ServiceInfoMessage struct {
	NumGrids   int
	Compressed bool
}

// DecodeST10 decodes the service-info header. It does not install a mask
// and has no IODSSR dependency (spec.md §4.3: dependency "none").
func DecodeST10(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*ServiceInfoMessage, error) {
	start := c.Pos()
	compressed := c.ReadU(1) != 0
	numGrids := int(c.ReadU(6))
	dec.AccountBits(prn, dialect, "other", c.Pos()-start)
	return &ServiceInfoMessage{NumGrids: numGrids, Compressed: compressed}, nil
}

// OrbitClockComboMessage is the decoded body of ST-11.
type OrbitClockComboMessage struct {
	Combined *CombinedMessage
}

// DecodeST11 decodes the orbit+clock combination, structurally identical to
// ST-6's layout (spec.md §4.3 lists both as combined orbit/clock variants).
func DecodeST11(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect) (*OrbitClockComboMessage, error) {
	combined, err := DecodeST6(c, dec, prn, dialect)
	if err != nil {
		return nil, err
	}
	return &OrbitClockComboMessage{Combined: combined}, nil
}

// NetworkAtmosphereMessage is the decoded body of ST-12: network/atmospheric
// combination (mask + grid dependency).
type NetworkAtmosphereMessage struct {
	STEC *STECMessage
	Grid *GridMessage
}

// DecodeST12 decodes the network/atmospheric combination by chaining the
// ST-8 and ST-9 layouts, per spec.md §4.3's "mask + grid" dependency note.
func DecodeST12(c *BitCursor, dec *CSSRDecoder, prn int, dialect Dialect, nPoints int) (*NetworkAtmosphereMessage, error) {
	stec, err := DecodeST8(c, dec, prn, dialect)
	if err != nil {
		return nil, err
	}
	grid, err := DecodeST9(c, dec, prn, dialect, nPoints)
	if err != nil {
		return nil, err
	}
	return &NetworkAtmosphereMessage{STEC: stec, Grid: grid}, nil
}

// SubtypeBitLength returns the declared bit length of a subtype body, i.e.
// everything after the msgnum(12)+subtype(4)+epoch/hepoch+interval(4)+mmi(1)
// header WalkCSSRSubframe already consumed, so a decoder that must skip an
// IODSSR-mismatched or unknown subtype (spec.md §7) can advance the cursor
// correctly instead of losing synchronization within the subframe.
// ST-2..ST-8 and ST-11 are sized from the active mask. For ST-1, ST-9, ST-10
// and ST-12, and for every subtype while no mask is installed, only the
// IODSSR width is returned.
func SubtypeBitLength(dialect Dialect, subtype int, mask *Mask) int {
	t := TableFor(dialect)
	if mask == nil {
		return t.IODSSR.Width // no mask: only IODSSR can be sized (DecodeST1 consumes the rest of ST-1 itself)
	}
	nsat := mask.NSat()
	nsig := mask.NSig()
	switch subtype {
	case 2:
		return t.IODSSR.Width + nsat*(t.IODE.Width+t.OrbitRadial.Width+t.OrbitAlong.Width+t.OrbitCross.Width)
	case 3:
		return t.IODSSR.Width + nsat*t.ClockC0.Width
	case 4:
		return t.IODSSR.Width + nsig*t.CodeBias.Width
	case 5:
		return t.IODSSR.Width + nsig*(t.PhaseBias.Width+t.PhaseDisc.Width)
	case 6, 11:
		return t.IODSSR.Width + nsat*(t.IODE.Width+t.OrbitRadial.Width+t.OrbitAlong.Width+t.OrbitCross.Width+t.ClockC0.Width)
	case 7:
		return t.IODSSR.Width + nsat*t.URA.Width
	case 8:
		return t.IODSSR.Width + nsat*4*t.STECCoeff.Width
	default:
		return t.IODSSR.Width
	}
}
