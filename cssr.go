package augstream

/*------------------------------------------------------------------------------
* cssr.go : CSSR mask table, IODSSR handling, bit-accounting (§4.3)
*
* No teacher analogue (RTKLIB predates CSSR); the mask-context-then-dense-
* array design follows spec.md §3/§4.3/§9 directly. The IODSSR
* equal/unequal/absent dispatch and the requirement to still advance the bit
* cursor by the subtype's declared length on mismatch come from spec.md §7.
 */

import "fmt"

// maskKey identifies one (PRN-stream, dialect) mask context (spec.md §3:
// "at most one mask per (PRN, dialect) key").
type maskKey struct {
	prn     int
	dialect Dialect
}

func (k maskKey) String() string { return fmt.Sprintf("%d/%s", k.prn, k.dialect) }

// CSSRDecoder holds mask contexts and cumulative bit-accounting statistics
// for one logical stream. Per spec.md §5 "the mask context is mutated only
// by the CSSR decoder... no locking is needed" -- CSSRDecoder is not
// goroutine-safe and callers processing multiple streams must use one
// instance per stream (spec.md §9 "no global state").
type CSSRDecoder struct {
	masks map[maskKey]*Mask
	stats map[maskKey]*CSSRStats
}

// NewCSSRDecoder creates an empty decoder.
func NewCSSRDecoder() *CSSRDecoder {
	return &CSSRDecoder{masks: map[maskKey]*Mask{}, stats: map[maskKey]*CSSRStats{}}
}

// ActiveMask returns the current mask for (prn,dialect), or nil if none has
// been installed yet.
func (d *CSSRDecoder) ActiveMask(prn int, dialect Dialect) *Mask {
	return d.masks[maskKey{prn, dialect}]
}

// Stats returns the running bit-accounting counters for (prn,dialect),
// creating a zeroed entry on first access.
func (d *CSSRDecoder) Stats(prn int, dialect Dialect) *CSSRStats {
	k := maskKey{prn, dialect}
	s, ok := d.stats[k]
	if !ok {
		s = &CSSRStats{}
		d.stats[k] = s
	}
	return s
}

func (d *CSSRDecoder) resetStats(prn int, dialect Dialect, m *Mask) *CSSRStats {
	s := &CSSRStats{NSat: m.NSat(), NSig: m.NSig()}
	d.stats[maskKey{prn, dialect}] = s
	return s
}

// installMask replaces the active mask for (prn,dialect). Mask replacement
// is only ever triggered by a successfully decoded ST-1/MT-1 (spec.md §3
// "Mask replacement is monotonic within an IODSSR epoch").
func (d *CSSRDecoder) installMask(prn int, dialect Dialect, m *Mask) {
	d.masks[maskKey{prn, dialect}] = m
	d.resetStats(prn, dialect, m)
}

// CheckIODSSR implements spec.md §4.3's three-way dispatch: equal->ok,
// unequal->IodssrMismatch (cursor still advances by declaredBits, handled
// by the caller), absent->MaskAbsent. It never mutates the active mask.
func (d *CSSRDecoder) CheckIODSSR(prn int, dialect Dialect, msgIODSSR int) (*Mask, error) {
	m := d.ActiveMask(prn, dialect)
	if m == nil {
		return nil, NewDecodeError(ErrMaskAbsent, "cssr", prn, 0, errMaskAbsent)
	}
	if m.IODSSR != msgIODSSR {
		return nil, NewDecodeError(ErrIodssrMismatch, "cssr", prn, 0,
			fmt.Errorf("active=%d msg=%d", m.IODSSR, msgIODSSR))
	}
	return m, nil
}

// AccountBits adds n bits to the sat/sig/other/null bucket of the running
// stats for (prn,dialect) and keeps the total reconciled (spec.md §8
// "bit_sat + bit_sig + bit_other + bit_null = bit_total").
func (d *CSSRDecoder) AccountBits(prn int, dialect Dialect, bucket string, n int) {
	s := d.Stats(prn, dialect)
	switch bucket {
	case "sat":
		s.BitSat += n
	case "sig":
		s.BitSig += n
	case "null":
		s.BitNull += n
	default:
		s.BitOther += n
	}
	s.Reconcile()
}
