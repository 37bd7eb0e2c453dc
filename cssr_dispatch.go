package augstream

/*------------------------------------------------------------------------------
* cssr_dispatch.go : per-subframe CSSR subtype dispatch loop (§4.3, §7)
*
* Walks a reassembled subframe/B2b/HAS bit buffer. Every subtype message is
* prefixed by the compact-SSR message header the CLAS reference decoder
* (original_source/python/libqzsl6.py's decode_cssr_head) reads before any
* subtype body: message number (12 bits, must equal 4073), subtype (4 bits),
* then -- for every subtype but ST-10, which the reference decoder never
* parses past its subtype field -- either the full GPS epoch (20 bits, ST-1
* only) or the GNSS hourly epoch (12 bits, every other subtype), the update
* interval (4 bits) and the multiple-message indicator (1 bit). The
* subtype's own IODSSR field (spec.md §4.3) is read by the subtype body
* itself, matching decode_cssr_head's "iod" field belonging to the body, not
* the shared header. No teacher analogue (RTKLIB predates CSSR); the
* abandon-on-impossible-length and advance-by-declared-length-on-mismatch
* behaviors are spec.md §7's error table and §8's boundary-behavior
* property, respectively.
 */

import "github.com/pkg/errors"

// cssrMsgNum is the RTCM message number CSSR subtype messages are always
// framed under (spec.md §4.3 "CLAS via MT-4073 subtype 1..12").
const cssrMsgNum = 4073

// cssrHeaderBits returns the bit width of the epoch/hepoch+interval+mmi
// fields that precede every subtype body except ST-10's, which the
// reference decoder never reads past its subtype field.
func cssrHeaderBits(subtype int) int {
	if subtype == 10 {
		return 0
	}
	epochWidth := 12
	if subtype == 1 {
		epochWidth = 20
	}
	return epochWidth + 4 + 1
}

// SubtypeResult tags one decoded (or skipped) CSSR subtype message within a
// subframe walk.
type SubtypeResult struct {
	Subtype int
	Mask    *MaskMessage
	Orbit   *OrbitMessage
	Clock   *ClockMessage
	Code    *CodeBiasMessage
	Phase   *PhaseBiasMessage
	Combined *CombinedMessage
	URA     *URAMessage
	STEC    *STECMessage
	Grid    *GridMessage
	Service *ServiceInfoMessage
	Combo11 *OrbitClockComboMessage
	Net12   *NetworkAtmosphereMessage
	Err     *DecodeError
}

// WalkCSSRSubframe decodes every subtype message packed into buf (an SF, a
// B2b message, or HAS cleartext), stopping at null padding (spec.md §4.2
// "trailing null padding ends the SF") or when a subtype's declared length
// would exceed the remaining bits (spec.md §8: "aborts the SF and is not
// retried"). gridPoints supplies the ST-9 grid size tracked from the most
// recent ST-10 in this stream; 0 is fine until one has arrived.
func WalkCSSRSubframe(buf []uint8, dec *CSSRDecoder, prn int, dialect Dialect, gridPoints int) []SubtypeResult {
	c := NewBitCursor(buf)
	var results []SubtypeResult

	for {
		if remainingIsZero(c) {
			break
		}
		if c.Remaining() < 12 {
			break
		}
		if int(c.Peek(12)) != cssrMsgNum {
			break
		}
		headerStart := c.Pos()
		c.Advance(12)

		if c.Remaining() < 4 {
			break
		}
		st := int(c.ReadU(4))

		hdrBits := cssrHeaderBits(st)
		if c.Remaining() < hdrBits {
			break
		}
		c.Advance(hdrBits) // epoch/hepoch + update interval + mmi; not needed downstream

		mask := dec.ActiveMask(prn, dialect)
		declared := SubtypeBitLength(dialect, st, mask)
		if c.Remaining() < declared {
			break
		}
		dec.AccountBits(prn, dialect, "other", c.Pos()-headerStart)

		start := c.Pos()
		r := SubtypeResult{Subtype: st}

		switch st {
		case 1:
			m, err := DecodeST1(c, dec, prn, dialect, ConstNone)
			r.Mask = m
			r.Err = asDecodeError(err, prn)
		case 2:
			m, err := DecodeST2(c, dec, prn, dialect)
			r.Orbit = m
			r.Err = asDecodeError(err, prn)
		case 3:
			m, err := DecodeST3(c, dec, prn, dialect)
			r.Clock = m
			r.Err = asDecodeError(err, prn)
		case 4:
			m, err := DecodeST4(c, dec, prn, dialect)
			r.Code = m
			r.Err = asDecodeError(err, prn)
		case 5:
			m, err := DecodeST5(c, dec, prn, dialect)
			r.Phase = m
			r.Err = asDecodeError(err, prn)
		case 6:
			m, err := DecodeST6(c, dec, prn, dialect)
			r.Combined = m
			r.Err = asDecodeError(err, prn)
		case 7:
			m, err := DecodeST7(c, dec, prn, dialect)
			r.URA = m
			r.Err = asDecodeError(err, prn)
		case 8:
			m, err := DecodeST8(c, dec, prn, dialect)
			r.STEC = m
			r.Err = asDecodeError(err, prn)
		case 9:
			m, err := DecodeST9(c, dec, prn, dialect, gridPoints)
			r.Grid = m
			r.Err = asDecodeError(err, prn)
		case 10:
			m, err := DecodeST10(c, dec, prn, dialect)
			r.Service = m
			if m != nil {
				gridPoints = m.NumGrids
			}
			r.Err = asDecodeError(err, prn)
		case 11:
			m, err := DecodeST11(c, dec, prn, dialect)
			r.Combo11 = m
			r.Err = asDecodeError(err, prn)
		case 12:
			m, err := DecodeST12(c, dec, prn, dialect, gridPoints)
			r.Net12 = m
			r.Err = asDecodeError(err, prn)
		default:
			c.Advance(declared)
			r.Err = NewDecodeError(ErrUnknownSubtype, "cssr-dispatch", prn, 0, errUnknownSubtype)
		}

		if r.Err != nil {
			// mismatch/absent already consumed no bits beyond the IODSSR
			// field; recover sync by advancing to the subtype's full
			// declared length (spec.md §7).
			consumed := c.Pos() - start
			if remaining := declared - consumed; remaining > 0 {
				c.Advance(remaining)
			}
		}
		results = append(results, r)
	}
	return results
}

// remainingIsZero reports whether every bit from the cursor's current
// position to the end of the buffer is zero, without advancing the cursor,
// by peeking in 32-bit chunks (spec.md §4.2 "trailing null padding ends the
// SF").
func remainingIsZero(c *BitCursor) bool {
	pos := c.Pos()
	total := c.Len()
	for pos < total {
		n := total - pos
		if n > 32 {
			n = 32
		}
		if c.PeekAt(pos, n) != 0 {
			return false
		}
		pos += n
	}
	return true
}

func asDecodeError(err error, prn int) *DecodeError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DecodeError); ok {
		return de
	}
	return NewDecodeError(ErrUnknownSubtype, "cssr-dispatch", prn, 0, errors.WithStack(err))
}
