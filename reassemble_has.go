package augstream

/*------------------------------------------------------------------------------
* reassemble_has.go : Galileo HAS page reassembly (§4.2)
*
* Grouping pages by MID, retaining first-seen MS, and RS-decoding once MS
* distinct PIDs arrive follows spec.md §4.2 directly; the RS erasure solve
* itself is reedsolomon.go's RSDecodeHAS. There is no teacher analogue for
* HAS in gnssgo (RTKLIB predates the HAS service), so this reassembler's
* buffering shape mirrors the bounded, keyed-buffer style
* gnssgo/src/rcvraw.go uses for subframe accumulation (a map keyed by the
* grouping identifier, discarded on success or supersession) rather than any
* specific teacher function.
 */

const (
	hasPageBytes = 53 // 424 bits
	hasCleartextPerPage = 53
)

type hasGroup struct {
	ms    int
	pages map[int][]uint8 // column index (PID-1) -> 53-byte page payload
}

// HASReassembler groups HAS pages by MID and RS-decodes each group once MS
// distinct pages have arrived (spec.md §4.2, §5 "HAS reassembly retains at
// most 32 pages x 53 bytes x number of live MIDs per PRN").
type HASReassembler struct {
	groups map[int]*hasGroup // keyed by MID
}

// NewHASReassembler creates an empty reassembler for one PRN/broadcast
// stream.
func NewHASReassembler() *HASReassembler {
	return &HASReassembler{groups: map[int]*hasGroup{}}
}

// HASResult is a successfully decoded HAS message.
type HASResult struct {
	MID       int
	MS        int
	Cleartext []uint8 // MS*53 bytes
}

// Add ingests one HAS page. It returns a decoded result once MS distinct
// pages have accumulated for that MID, an ErrMSMismatch DecodeError (with
// the new page already installed into a fresh group) if MS changed
// mid-group, an ErrShortPayload DecodeError for PID==0, or (nil,nil) if
// more pages are still needed.
func (r *HASReassembler) Add(prn int, p HASPage) (*HASResult, *DecodeError) {
	if p.PID < 1 {
		return nil, NewDecodeError(ErrShortPayload, "has-reassemble", prn, 0, errShortPayload)
	}

	var msMismatch bool
	g, ok := r.groups[p.MID]
	if !ok {
		g = &hasGroup{ms: p.MS, pages: map[int][]uint8{}}
		r.groups[p.MID] = g
	} else if g.ms != p.MS {
		// "a new group replaces the old one if MS changes" (spec.md §4.2):
		// both halves apply, the stale group is dropped AND the mismatch is
		// surfaced rather than swallowed.
		msMismatch = true
		g = &hasGroup{ms: p.MS, pages: map[int][]uint8{}}
		r.groups[p.MID] = g
	}

	if len(g.pages) >= 32 {
		// bounded buffer (spec.md §5): drop one arbitrary page (the first in
		// map iteration order) rather than growing unboundedly.
		for k := range g.pages {
			delete(g.pages, k)
			break
		}
	}
	page := make([]uint8, hasPageBytes)
	copy(page, p.Payload)
	g.pages[p.PID-1] = page // column index = PID-1

	if msMismatch {
		return nil, NewDecodeError(ErrMSMismatch, "has-reassemble", prn, 0, errMSMismatch)
	}

	if len(g.pages) < g.ms {
		return nil, nil
	}

	cleartext := make([]uint8, g.ms*hasCleartextPerPage)
	for byteOff := 0; byteOff < hasCleartextPerPage; byteOff++ {
		received := make(map[int]uint8, len(g.pages))
		for col, page := range g.pages {
			received[col] = page[byteOff]
		}
		msg, err := RSDecodeHAS(g.ms, received)
		if err != nil {
			delete(r.groups, p.MID)
			return nil, NewDecodeError(ErrRsUncorrectable, "has-reassemble", prn, 0, err)
		}
		for col := 0; col < g.ms; col++ {
			cleartext[col*hasCleartextPerPage+byteOff] = msg[col]
		}
	}

	delete(r.groups, p.MID)
	return &HASResult{MID: p.MID, MS: g.ms, Cleartext: cleartext}, nil
}
