package augstream

/*------------------------------------------------------------------------------
* msm.go : RTCM MSM (1071..1137) observation decode (§4.4)
*
* Header field widths and the satellite/signal/cell mask bit layout are
* grounded on other_examples/goblimey-go-ntrip__header.go's Header type
* (lenSatelliteMask=64, lenSignalMask=32, bit-counting mask decode); the
* per-cell pseudorange/phase/Doppler/C-No field set and MSM4/5/6/7 variant
* dispatch follow gnssgo/src/rtcm3.go's decode_type1001..1012 observation
* family, generalized to the MSM variable layout spec.md §4.4 calls out
* instead of the teacher's fixed legacy-message layouts.
 */

// MSMHeader is the common header shared by every 107x/108x/… MSM message.
type MSMHeader struct {
	MessageType     int
	Constellation   Constellation
	StationID       int
	EpochTime       uint32
	MultipleMessage bool
	IODS            int
	SatelliteMask   uint64
	SignalMask      uint32
	Satellites      []int
	Signals         []int
	Cells           [][]bool // [satIdx][sigIdx]
	NumCells        int
}

// MSMCell is one satellite/signal observation cell.
type MSMCell struct {
	SatIdx, SigIdx int
	PseudorangeM   float64
	PhaseRangeM    float64
	DopplerHz      float64
	CNoDbHz        float64
	HasPseudorange bool
	HasPhase       bool
	HasDoppler     bool
	HasCNo         bool
}

// MSMObservation is a fully decoded MSM message.
type MSMObservation struct {
	Header MSMHeader
	Cells  []MSMCell
}

func msmConstellation(msgType int) Constellation {
	switch {
	case msgType >= 1071 && msgType <= 1077:
		return ConstGPS
	case msgType >= 1081 && msgType <= 1087:
		return ConstNone // GLONASS, out of scope PRN table; kept for dispatch completeness
	case msgType >= 1091 && msgType <= 1097:
		return ConstGalileo
	case msgType >= 1111 && msgType <= 1117:
		return ConstQZSS
	case msgType >= 1121 && msgType <= 1127:
		return ConstBeiDou
	default:
		return ConstNone
	}
}

func msmVariant(msgType int) int {
	// 107x: 1=range only .. 7=full high-res; (type-base) mod 10 selects variant.
	base := ((msgType - 1) % 10) + 1
	return base
}

func bitmaskToIndices(mask uint64, nbits int) []int {
	var out []int
	for i := 0; i < nbits; i++ {
		if mask&(uint64(1)<<uint(nbits-1-i)) != 0 {
			out = append(out, i+1) // 1-based satellite/signal number
		}
	}
	return out
}

// DecodeMSM decodes an MSM header plus, for variants >=4, the per-cell
// observation data. Variants 1-3 (range-only/phase-only/Doppler-only) are
// surfaced with the header and an empty cell set's fields left at their
// zero/no-value state, since spec.md scopes full MSM decode to what the
// end-to-end scenarios exercise (MSM7).
func DecodeMSM(msg *RtcmMessage) (*MSMObservation, error) {
	c := NewBitCursor(msg.Payload)
	c.Advance(12)

	h := MSMHeader{MessageType: msg.Type, Constellation: msmConstellation(msg.Type)}
	h.StationID = int(c.ReadU(12))
	h.EpochTime = c.ReadU(30)
	h.MultipleMessage = c.ReadU(1) != 0
	h.IODS = int(c.ReadU(3))
	c.Advance(7 + 2 + 2 + 1 + 3) // session time, clock steering, ext clock, smoothing ind+interval
	h.SatelliteMask = uint64(c.ReadU(32))<<32 | uint64(c.ReadU(32))
	h.SignalMask = c.ReadU(24)<<8 | c.ReadU(8)

	h.Satellites = bitmaskToIndices(h.SatelliteMask, 64)
	h.Signals = bitmaskToIndices(uint64(h.SignalMask), 32)

	nCell := len(h.Satellites) * len(h.Signals)
	cellBits := make([]bool, nCell)
	for i := 0; i < nCell; i++ {
		cellBits[i] = c.ReadU(1) != 0
	}
	h.Cells = make([][]bool, len(h.Satellites))
	n := 0
	for i := range h.Satellites {
		h.Cells[i] = make([]bool, len(h.Signals))
		for j := range h.Signals {
			h.Cells[i][j] = cellBits[i*len(h.Signals)+j]
			if cellBits[i*len(h.Signals)+j] {
				n++
			}
		}
	}
	h.NumCells = n

	obs := &MSMObservation{Header: h}

	variant := msmVariant(msg.Type)
	if variant < 4 {
		return obs, nil
	}

	// Satellite-scoped data: rough range (8 bits) per satellite, then the
	// extended satellite info that only MSM5/7 carry (skipped).
	roughRange := make([]uint32, len(h.Satellites))
	for i := range h.Satellites {
		roughRange[i] = c.ReadU(8)
	}
	if variant == 5 || variant == 7 {
		c.Advance(4 * len(h.Satellites)) // extended satellite info
	}
	roughRangeMod := make([]uint32, len(h.Satellites))
	for i := range h.Satellites {
		roughRangeMod[i] = c.ReadU(10)
	}
	if variant == 5 || variant == 7 {
		c.Advance(14 * len(h.Satellites)) // rough phase-range rate, skipped (not surfaced)
	}
	_ = roughRangeMod

	fineRangeBits, finePhaseBits := 15, 22
	if variant == 7 {
		fineRangeBits, finePhaseBits = 20, 24
	}

	cells := make([]MSMCell, 0, n)
	// Fine pseudorange per cell.
	fine := make([]int32, n)
	for i := 0; i < n; i++ {
		fine[i] = c.ReadS(fineRangeBits)
	}
	finePhase := make([]int32, n)
	for i := 0; i < n; i++ {
		finePhase[i] = c.ReadS(finePhaseBits)
	}
	lockTime := make([]uint32, n)
	for i := 0; i < n; i++ {
		lockTime[i] = c.ReadU(4)
	}
	halfCycle := make([]bool, n)
	for i := 0; i < n; i++ {
		halfCycle[i] = c.ReadU(1) != 0
	}
	_ = halfCycle
	cnr := make([]uint32, n)
	cnrBits := 6
	if variant == 7 {
		cnrBits = 10
	}
	for i := 0; i < n; i++ {
		cnr[i] = c.ReadU(cnrBits)
	}
	var fineDoppler []int32
	if variant == 5 || variant == 7 {
		fineDoppler = make([]int32, n)
		for i := 0; i < n; i++ {
			fineDoppler[i] = c.ReadS(14)
		}
	}

	idx := 0
	for si := range h.Satellites {
		for gi := range h.Signals {
			if !h.Cells[si][gi] {
				continue
			}
			cell := MSMCell{SatIdx: si, SigIdx: gi}
			rough := float64(roughRange[si]) * 299792.458 // RANGE_MS in meters
			cell.PseudorangeM = rough + float64(fine[idx])*rangeResolution(fineRangeBits)
			cell.HasPseudorange = fine[idx] != invalidSentinel(fineRangeBits)
			cell.PhaseRangeM = cell.PseudorangeM + float64(finePhase[idx])*phaseResolution(finePhaseBits)
			cell.HasPhase = finePhase[idx] != invalidSentinel(finePhaseBits)
			cell.CNoDbHz = float64(cnr[idx]) * cnrResolution(cnrBits)
			cell.HasCNo = true
			if fineDoppler != nil {
				cell.DopplerHz = float64(fineDoppler[idx]) * 0.0001
				cell.HasDoppler = fineDoppler[idx] != invalidSentinel(14)
			}
			cells = append(cells, cell)
			idx++
		}
	}
	obs.Cells = cells
	return obs, nil
}

func invalidSentinel(bits int) int32 {
	return int32(-(1 << uint(bits-1)))
}

func rangeResolution(bits int) float64 {
	if bits == 20 {
		return 0.0002 // meters, MSM7 extended resolution
	}
	return 0.02
}

func phaseResolution(bits int) float64 {
	if bits == 24 {
		return 0.0005 / 16 // MSM7 extended phase-range resolution
	}
	return 0.0005
}

func cnrResolution(bits int) float64 {
	if bits == 10 {
		return 0.0625
	}
	return 1.0
}
