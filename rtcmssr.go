package augstream

/*------------------------------------------------------------------------------
* rtcmssr.go : RTCM-SSR message types 1057-1068 (MADOCA broadcast path, §4.4)
*
* Grounded on gnssgo/src/rtcm3.go's decode_ssr1..decode_ssr7 family: same
* field order (epoch time, update interval, multiple-message flag, IOD-SSR,
* provider/solution ID, then a satellite-count-prefixed loop), reworked to
* return typed records instead of mutating a shared rtcm_t state struct.
 */

import "github.com/pkg/errors"

// RTCM-SSR message types this decoder recognizes (spec.md §3).
const (
	RTCMSSROrbitGPS  = 1057
	RTCMSSRClockGPS  = 1058
	RTCMSSRCodeBiasGPS = 1059
	RTCMSSRCombinedGPS = 1060
	RTCMSSRURAGPS    = 1061
	RTCMSSRHRClockGPS = 1062
	RTCMSSROrbitGAL  = 1063
	RTCMSSRClockGAL  = 1064
	RTCMSSRCodeBiasGAL = 1065
	RTCMSSRCombinedGAL = 1066
	RTCMSSRURAGAL    = 1067
	RTCMSSRHRClockGAL = 1068
)

// SSRHeader is the common prefix every SSR message type shares (grounded on
// decode_ssr1's leading field sequence in gnssgo/src/rtcm3.go).
type SSRHeader struct {
	Epoch       int // GPS/GAL epoch time, seconds of week
	UpdateInt   int // update interval class, 4 bits
	MultiMsg    bool
	IODSSR      int
	ProviderID  int
	SolutionID  int
	NumSats     int
}

func decodeSSRHeader(c *BitCursor, galileo bool) SSRHeader {
	h := SSRHeader{}
	if galileo {
		h.Epoch = int(c.ReadU(20))
	} else {
		h.Epoch = int(c.ReadU(20))
	}
	h.UpdateInt = int(c.ReadU(4))
	h.MultiMsg = c.ReadU(1) != 0
	h.IODSSR = int(c.ReadU(4))
	h.ProviderID = int(c.ReadU(16))
	h.SolutionID = int(c.ReadU(4))
	h.NumSats = int(c.ReadU(6))
	return h
}

// SSROrbitSat is one satellite's orbit correction within an SSR orbit
// message (radial/along/cross deltas plus their rates, grounded on
// decode_ssr1's per-satellite field widths).
type SSROrbitSat struct {
	PRN         int
	IODE        int
	RadialM     float64
	AlongM      float64
	CrossM      float64
	RadialRate  float64
	AlongRate   float64
	CrossRate   float64
}

// SSROrbitMessage is the decoded body of 1057/1063.
type SSROrbitMessage struct {
	Header SSRHeader
	Sats   []SSROrbitSat
}

// DecodeSSROrbit decodes 1057 (GPS) or 1063 (Galileo).
func DecodeSSROrbit(msg *RtcmMessage) (*SSROrbitMessage, error) {
	galileo := msg.Type == RTCMSSROrbitGAL
	if !galileo && msg.Type != RTCMSSROrbitGPS {
		return nil, errors.Errorf("not an SSR orbit message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	sats := make([]SSROrbitSat, 0, h.NumSats)
	for i := 0; i < h.NumSats; i++ {
		s := SSROrbitSat{}
		s.PRN = int(c.ReadU(6))
		iodeWidth := 8
		if galileo {
			iodeWidth = 10
		}
		s.IODE = int(c.ReadU(iodeWidth))
		s.RadialM = float64(c.ReadS(22)) * 0.1e-3
		s.AlongM = float64(c.ReadS(20)) * 0.4e-3
		s.CrossM = float64(c.ReadS(20)) * 0.4e-3
		s.RadialRate = float64(c.ReadS(21)) * 0.001e-3
		s.AlongRate = float64(c.ReadS(19)) * 0.004e-3
		s.CrossRate = float64(c.ReadS(19)) * 0.004e-3
		sats = append(sats, s)
	}
	return &SSROrbitMessage{Header: h, Sats: sats}, nil
}

// SSRClockSat is one satellite's clock correction (C0/C1/C2 polynomial
// coefficients, grounded on decode_ssr2).
type SSRClockSat struct {
	PRN int
	C0  float64
	C1  float64
	C2  float64
}

// SSRClockMessage is the decoded body of 1058/1064.
type SSRClockMessage struct {
	Header SSRHeader
	Sats   []SSRClockSat
}

// DecodeSSRClock decodes 1058 (GPS) or 1064 (Galileo).
func DecodeSSRClock(msg *RtcmMessage) (*SSRClockMessage, error) {
	galileo := msg.Type == RTCMSSRClockGAL
	if !galileo && msg.Type != RTCMSSRClockGPS {
		return nil, errors.Errorf("not an SSR clock message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	sats := make([]SSRClockSat, 0, h.NumSats)
	for i := 0; i < h.NumSats; i++ {
		s := SSRClockSat{}
		s.PRN = int(c.ReadU(6))
		s.C0 = float64(c.ReadS(22)) * 0.1e-3
		s.C1 = float64(c.ReadS(21)) * 0.001e-3
		s.C2 = float64(c.ReadS(27)) * 0.00002e-3
		sats = append(sats, s)
	}
	return &SSRClockMessage{Header: h, Sats: sats}, nil
}

// SSRCodeBiasEntry is one signal's code bias within an SSR code-bias
// message (grounded on decode_ssr4).
type SSRCodeBiasEntry struct {
	PRN      int
	SignalID int
	BiasM    float64
}

// SSRCodeBiasMessage is the decoded body of 1059/1065.
type SSRCodeBiasMessage struct {
	Header  SSRHeader
	Entries []SSRCodeBiasEntry
}

// DecodeSSRCodeBias decodes 1059 (GPS) or 1065 (Galileo).
func DecodeSSRCodeBias(msg *RtcmMessage) (*SSRCodeBiasMessage, error) {
	galileo := msg.Type == RTCMSSRCodeBiasGAL
	if !galileo && msg.Type != RTCMSSRCodeBiasGPS {
		return nil, errors.Errorf("not an SSR code-bias message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	var entries []SSRCodeBiasEntry
	for i := 0; i < h.NumSats; i++ {
		prn := int(c.ReadU(6))
		nbias := int(c.ReadU(5))
		for j := 0; j < nbias; j++ {
			sigID := int(c.ReadU(5))
			c.Advance(1) // reserved
			bias := float64(c.ReadS(14)) * 0.01
			entries = append(entries, SSRCodeBiasEntry{PRN: prn, SignalID: sigID, BiasM: bias})
		}
	}
	return &SSRCodeBiasMessage{Header: h, Entries: entries}, nil
}

// SSRURAMessage is the decoded body of 1061/1067 (grounded on decode_ssr5).
type SSRURAMessage struct {
	Header SSRHeader
	URA    map[int]int // PRN -> raw 6-bit URA class
}

// DecodeSSRURA decodes 1061 (GPS) or 1067 (Galileo).
func DecodeSSRURA(msg *RtcmMessage) (*SSRURAMessage, error) {
	galileo := msg.Type == RTCMSSRURAGAL
	if !galileo && msg.Type != RTCMSSRURAGPS {
		return nil, errors.Errorf("not an SSR URA message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	ura := make(map[int]int, h.NumSats)
	for i := 0; i < h.NumSats; i++ {
		prn := int(c.ReadU(6))
		ura[prn] = int(c.ReadU(6))
	}
	return &SSRURAMessage{Header: h, URA: ura}, nil
}

// SSRHRClockMessage is the decoded body of 1062/1068: a single high-rate
// clock correction term per satellite (grounded on decode_ssr6).
type SSRHRClockMessage struct {
	Header  SSRHeader
	HRClock map[int]float64
}

// DecodeSSRHRClock decodes 1062 (GPS) or 1068 (Galileo).
func DecodeSSRHRClock(msg *RtcmMessage) (*SSRHRClockMessage, error) {
	galileo := msg.Type == RTCMSSRHRClockGAL
	if !galileo && msg.Type != RTCMSSRHRClockGPS {
		return nil, errors.Errorf("not an SSR high-rate-clock message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	m := make(map[int]float64, h.NumSats)
	for i := 0; i < h.NumSats; i++ {
		prn := int(c.ReadU(6))
		m[prn] = float64(c.ReadS(22)) * 0.1e-3
	}
	return &SSRHRClockMessage{Header: h, HRClock: m}, nil
}

// SSRCombinedMessage is the decoded body of 1060/1066: the orbit and clock
// fields of 1057/1058 (or 1063/1064) merged under one header (grounded on
// decode_ssr3's fused loop).
type SSRCombinedMessage struct {
	Header SSRHeader
	Orbits []SSROrbitSat
	Clocks []SSRClockSat
}

// DecodeSSRCombined decodes 1060 (GPS) or 1066 (Galileo).
func DecodeSSRCombined(msg *RtcmMessage) (*SSRCombinedMessage, error) {
	galileo := msg.Type == RTCMSSRCombinedGAL
	if !galileo && msg.Type != RTCMSSRCombinedGPS {
		return nil, errors.Errorf("not an SSR combined message: type=%d", msg.Type)
	}
	c := NewBitCursor(msg.Payload)
	c.Advance(12)
	h := decodeSSRHeader(c, galileo)
	orbits := make([]SSROrbitSat, 0, h.NumSats)
	clocks := make([]SSRClockSat, 0, h.NumSats)
	iodeWidth := 8
	if galileo {
		iodeWidth = 10
	}
	for i := 0; i < h.NumSats; i++ {
		prn := int(c.ReadU(6))
		o := SSROrbitSat{PRN: prn}
		o.IODE = int(c.ReadU(iodeWidth))
		o.RadialM = float64(c.ReadS(22)) * 0.1e-3
		o.AlongM = float64(c.ReadS(20)) * 0.4e-3
		o.CrossM = float64(c.ReadS(20)) * 0.4e-3
		o.RadialRate = float64(c.ReadS(21)) * 0.001e-3
		o.AlongRate = float64(c.ReadS(19)) * 0.004e-3
		o.CrossRate = float64(c.ReadS(19)) * 0.004e-3
		orbits = append(orbits, o)

		cl := SSRClockSat{PRN: prn}
		cl.C0 = float64(c.ReadS(22)) * 0.1e-3
		cl.C1 = float64(c.ReadS(21)) * 0.001e-3
		cl.C2 = float64(c.ReadS(27)) * 0.00002e-3
		clocks = append(clocks, cl)
	}
	return &SSRCombinedMessage{Header: h, Orbits: orbits, Clocks: clocks}, nil
}
