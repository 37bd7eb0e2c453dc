package augstream

/*------------------------------------------------------------------------------
* l1s.go : QZSS L1S / SBAS DGPS correction message decode (§3, §4.2)
*
* Wire layout -- 8-bit preamble, 6-bit message type, 212-bit data field,
* 24-bit CRC-24Q, the whole thing packed into the 32-byte/250-bit payload
* spec.md §3 assigns to L1S -- and every per-message-type field layout below
* are ported directly from original_source/python/qzsl1sread.py's QzsL1s
* class (decode_l1s/decode_prn_mask/decode_data_issue_number/
* decode_dgps_correction/decode_satellite_health). There is no teacher
* analogue (RTKLIB predates this decomposition of SBAS-family messages), so
* CRC validation reuses crc.go's CRC24Q and field decode uses bitio.go's
* BitCursor the same way cssr_subtypes.go does for CSSR.
 */

import "fmt"

const (
	l1sPreambleBits = 8
	l1sMTBits       = 6
	l1sDFBits       = 212
	l1sCRCBits      = 24
	// pad(6)+preamble+mt+df, byte-aligned for CRC24Q, ref.[3] sect.4.1.1.3.
	l1sFrameBits = 6 + l1sPreambleBits + l1sMTBits + l1sDFBits
)

// l1sMTName names every QZSS/SBAS L1S message type (ref.[3], ported from
// qzsl1sread.py's MT2NAME); only a subset below have a field decoder, the
// rest surface by name only, same as the python tool's fallback.
var l1sMTName = map[int]string{
	0:  "Test mode",
	1:  "PRN mask",
	2:  "Fast corrections 1",
	3:  "Fast corrections 2",
	4:  "Fast corrections 3",
	5:  "Fast corrections 4",
	6:  "Integrity information",
	7:  "Fast correction degradation factor",
	9:  "GEO ranging function parameters",
	10: "Degradation parameters",
	12: "SBAS network time/UTC offset parameters",
	17: "GEO satellite almanacs",
	18: "Ionospheric grid point masks",
	24: "Mixed fast/long-term satellite corrections",
	25: "Long-term satellite error corrections",
	26: "Ionospheric delay corrections",
	27: "SBAS service message",
	28: "Clock-ephemeris covariance matrix",
	43: "JMA DCR",
	44: "Organization DCR",
	47: "Monitoring station information",
	48: "PRN mask",
	49: "Data issue number",
	50: "DGPS correction",
	51: "Satellite health",
	63: "Null message",
}

// l1sGMSName maps a monitoring station code to its place name (ref.[3]
// table 4.1.2-4, ported from qzsl1sread.py's GMS2NAME).
var l1sGMSName = map[int]string{
	0:  "Sapporo",
	1:  "Sendai",
	3:  "Hitachiota",
	5:  "Komatsu",
	6:  "Kobe",
	7:  "Hiroshima",
	8:  "Fukuoka",
	9:  "Tanegashima",
	10: "Amami",
	11: "Itoman",
	12: "Miyako",
	13: "Ishigaki",
	14: "Chichijima",
}

// L1SSatCorrection is one satellite's DGPS pseudorange correction from an
// MT50 message.
type L1SSatCorrection struct {
	SV       string // e.g. "G16"
	PRCMeter float64
}

// L1SDGPSCorrection is a decoded MT50 message (spec.md §8 scenario 5: "a
// DGPS correction message listing Sapporo with G16 PRC=-3.08 m").
type L1SDGPSCorrection struct {
	Station     string
	Corrections []L1SSatCorrection
}

// L1SPRNMask is a decoded MT1/MT48 message: the ordered satellite list
// every later MT49/MT50 mask_sv bit index refers to.
type L1SPRNMask struct {
	IODP int
	Sats []string
}

// L1SDataIssue is a decoded MT49 message.
type L1SDataIssue struct {
	IODI      int
	IODPMatch bool
	IOD       map[string]int // satellite -> issue number, masked sats only
}

// L1SSatelliteHealth is a decoded MT51 message.
type L1SSatelliteHealth struct {
	Unhealthy []string
}

// L1SMessage is one decoded QZSS L1S message (spec.md §3/§8 scenario 5); at
// most one of PRNMask/DataIssue/DGPS/Health is non-nil, set per MT.
type L1SMessage struct {
	MT   int
	Name string

	PRNMask   *L1SPRNMask
	DataIssue *L1SDataIssue
	DGPS      *L1SDGPSCorrection
	Health    *L1SSatelliteHealth
}

// l1sStreamState is the PRN-mask/data-issue context one broadcasting PRN
// carries across messages, the same role CSSRDecoder's Mask plays for CSSR
// (spec.md §3 "Mask context" generalizes to L1S's mask_sv indexing).
type l1sStreamState struct {
	iodp int
	iodi int
	sats []string // mask-ordered satellite list
}

// L1SDecoder tracks per-PRN L1S mask state across messages. Not goroutine-
// safe, same convention as CSSRDecoder (spec.md §5/§9).
type L1SDecoder struct {
	streams map[int]*l1sStreamState
}

// NewL1SDecoder creates an empty decoder.
func NewL1SDecoder() *L1SDecoder {
	return &L1SDecoder{streams: map[int]*l1sStreamState{}}
}

func (d *L1SDecoder) state(prn int) *l1sStreamState {
	s, ok := d.streams[prn]
	if !ok {
		s = &l1sStreamState{}
		d.streams[prn] = s
	}
	return s
}

// Decode parses one 32-byte L1S payload (8-bit preamble + 6-bit message
// type + 212-bit data field + 24-bit CRC, ref.[3] Fig.4.1.1-1), validating
// the CRC-24Q parity before dispatching on message type.
func (d *L1SDecoder) Decode(prn int, payload []uint8) (*L1SMessage, *DecodeError) {
	if len(payload)*8 < l1sPreambleBits+l1sMTBits+l1sDFBits+l1sCRCBits {
		return nil, NewDecodeError(ErrShortPayload, "l1s", prn, 0, errShortPayload)
	}

	c := NewBitCursor(payload)
	pab := c.ReadU(l1sPreambleBits)
	mt := int(c.ReadU(l1sMTBits))
	dfStart := c.Pos()
	c.Advance(l1sDFBits)
	crcWant := c.ReadU(l1sCRCBits)

	if crcGot := l1sFrameCRC(pab, mt, payload, dfStart); crcGot != crcWant {
		return nil, NewDecodeError(ErrChecksumFail, "l1s", prn, 0,
			fmt.Errorf("crc24q mismatch got=%06x want=%06x", crcGot, crcWant))
	}

	msg := &L1SMessage{MT: mt, Name: l1sMTName[mt]}
	if msg.Name == "" {
		msg.Name = fmt.Sprintf("MT %d", mt)
	}

	df := NewBitCursor(payload)
	df.SeekTo(dfStart)
	st := d.state(prn)
	switch mt {
	case 1, 48:
		msg.PRNMask = decodeL1SPRNMask(df, st)
	case 49:
		msg.DataIssue = decodeL1SDataIssue(df, st)
	case 50:
		msg.DGPS = decodeL1SDGPSCorrection(df, st)
	case 51:
		msg.Health = decodeL1SSatelliteHealth(df)
	}
	return msg, nil
}

// l1sFrameCRC rebuilds the byte-aligned pad(6)+preamble+mt+df frame ref.[3]
// CRCs over and returns its CRC-24Q.
func l1sFrameCRC(pab uint32, mt int, payload []uint8, dfStart int) uint32 {
	fw := NewBitWriter(l1sFrameBits)
	fw.WriteU(0, 6) // spare padding for byte alignment, not part of the wire
	fw.WriteU(pab, l1sPreambleBits)
	fw.WriteU(uint32(mt), l1sMTBits)
	dc := NewBitCursor(payload)
	dc.SeekTo(dfStart)
	for read := 0; read < l1sDFBits; {
		n := l1sDFBits - read
		if n > 32 {
			n = 32
		}
		fw.WriteU(dc.ReadU(n), n)
		read += n
	}
	return CRC24Q(fw.Bytes())
}

func decodeL1SPRNMask(df *BitCursor, st *l1sStreamState) *L1SPRNMask {
	iodp := int(df.ReadU(2))
	var sats []string
	for i := 0; i < 64; i++ {
		if df.ReadU(1) != 0 {
			sats = append(sats, fmt.Sprintf("G%02d", i+1))
		}
	}
	for i := 0; i < 9; i++ {
		if df.ReadU(1) != 0 {
			sats = append(sats, fmt.Sprintf("J%02d", i+1))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) != 0 {
			sats = append(sats, fmt.Sprintf("R%02d", i+1))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) != 0 {
			sats = append(sats, fmt.Sprintf("E%02d", i+1))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) != 0 {
			sats = append(sats, fmt.Sprintf("C%02d", i+1))
		}
	}
	// remaining 29 bits are spare, left unread.

	st.iodp = iodp
	st.sats = sats
	return &L1SPRNMask{IODP: iodp, Sats: sats}
}

func decodeL1SDataIssue(df *BitCursor, st *l1sStreamState) *L1SDataIssue {
	iodi := int(df.ReadU(2))
	maskSV := make([]bool, 23)
	for i := range maskSV {
		maskSV[i] = df.ReadU(1) != 0
	}
	iod := make([]int, 23)
	for i := range iod {
		iod[i] = int(df.ReadU(8))
	}
	iodp := int(df.ReadU(2))
	// 1-bit spare, left unread.

	if iodp != st.iodp {
		return &L1SDataIssue{IODI: iodi}
	}
	st.iodi = iodi
	out := map[string]int{}
	for i, sv := range st.sats {
		if i < len(maskSV) && maskSV[i] {
			out[sv] = iod[i]
		}
	}
	return &L1SDataIssue{IODI: iodi, IODPMatch: true, IOD: out}
}

func decodeL1SDGPSCorrection(df *BitCursor, st *l1sStreamState) *L1SDGPSCorrection {
	iodp := int(df.ReadU(2))
	iodi := int(df.ReadU(2))
	gmsCode := int(df.ReadU(6))
	df.Advance(1) // monitoring station health, not surfaced downstream
	maskSV := make([]bool, 23)
	for i := range maskSV {
		maskSV[i] = df.ReadU(1) != 0
	}
	prc := make([]float64, 14)
	for i := range prc {
		prc[i] = float64(df.ReadS(12)) * 0.04
	}
	// 10-bit spare, left unread.

	station, ok := l1sGMSName[gmsCode]
	if !ok {
		station = "unknown"
	}
	out := &L1SDGPSCorrection{Station: station}
	if iodp != st.iodp || iodi != st.iodi {
		return out
	}
	count := 0
	for i, sv := range st.sats {
		if i < len(maskSV) && maskSV[i] {
			out.Corrections = append(out.Corrections, L1SSatCorrection{SV: sv, PRCMeter: prc[count]})
			count++
		}
	}
	return out
}

func decodeL1SSatelliteHealth(df *BitCursor) *L1SSatelliteHealth {
	df.Advance(2) // spare
	var unhealthy []string
	for i := 0; i < 64; i++ {
		if df.ReadU(1) == 0 {
			unhealthy = append(unhealthy, fmt.Sprintf("G%02d", i))
		}
	}
	for i := 0; i < 9; i++ {
		if df.ReadU(1) == 0 {
			unhealthy = append(unhealthy, fmt.Sprintf("J%02d", i))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) == 0 {
			unhealthy = append(unhealthy, fmt.Sprintf("R%02d", i))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) == 0 {
			unhealthy = append(unhealthy, fmt.Sprintf("E%02d", i))
		}
	}
	for i := 0; i < 36; i++ {
		if df.ReadU(1) == 0 {
			unhealthy = append(unhealthy, fmt.Sprintf("C%02d", i))
		}
	}
	return &L1SSatelliteHealth{Unhealthy: unhealthy}
}
