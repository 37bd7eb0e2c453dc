package augstream

/*------------------------------------------------------------------------------
* pipeline.go : framer -> reassembler -> CSSR/RTCM decoder -> consumer (§5)
*
* Single-threaded, cooperative pull pipeline: Next() on the underlying byte
* source is the only blocking call, matching spec.md §5 ("no goroutines;
* the pipeline blocks only at the byte-source read"). No teacher analogue --
* gnssgo's rtksvr.go instead runs dedicated goroutines and channels per
* stream, which spec.md's Non-goals explicitly rule out for this decoder.
 */

import "io"

// Event is one unit of pipeline output: either a successfully decoded
// message, or an error tagged with its stage, surfaced to the consumer in
// arrival order (spec.md §5 "errors are values, not panics").
type Event struct {
	Frame     *SatFrame
	FrameErr  *FrameError
	HAS       *HASResult
	L6        []SubtypeResult
	B2b       []SubtypeResult
	L1S       *L1SMessage
	Rtcm      *RtcmMessage
	RtcmErr   *RtcmError
	DecodeErr *DecodeError
}

// Pipeline wires one vendor FrameSource through reassembly into the CSSR
// decoder, yielding Events one at a time.
type Pipeline struct {
	src     FrameSource
	dialect Dialect
	l6      *L6Reassembler
	has     *HASReassembler
	l1s     *L1SDecoder
	dec     *CSSRDecoder
	gridPts map[int]int // PRN -> most recent ST-10 grid point count
	sel     *BestSatSelector
	isL6    bool
	isHAS   bool
	isB2b   bool
	isL1S   bool
	pending []Event
}

// NewPipeline builds a pipeline over src. kind selects the reassembly mode:
// "l6" (CLAS/MADOCA-PPP), "has" (Galileo HAS), "b2b" (BeiDou B2b), "l1s"
// (QZSS L1S DGPS correction), or "" for a raw RTCM source with no
// satellite-frame reassembly.
func NewPipeline(src FrameSource, kind string, dialect Dialect, pinnedPRN int) *Pipeline {
	p := &Pipeline{
		src:     src,
		dialect: dialect,
		dec:     NewCSSRDecoder(),
		gridPts: map[int]int{},
		sel:     NewBestSatSelector(pinnedPRN),
	}
	switch kind {
	case "l6":
		p.isL6 = true
		p.l6 = NewL6Reassembler()
	case "has":
		p.isHAS = true
		p.has = NewHASReassembler()
	case "b2b":
		p.isB2b = true
	case "l1s":
		p.isL1S = true
		p.l1s = NewL1SDecoder()
	}
	return p
}

// Next pulls and processes frames from the source until one or more Events
// are ready to drain, or the source is exhausted.
func (p *Pipeline) Next() (Event, bool) {
	for {
		if len(p.pending) > 0 {
			ev := p.pending[0]
			p.pending = p.pending[1:]
			return ev, true
		}

		frame, ferr, ok := p.src.Next()
		if !ok {
			if flushed := p.sel.Flush(); flushed != nil {
				return p.processFrame(flushed), true
			}
			return Event{}, false
		}
		if ferr != nil {
			ObserveFrameError(ferr.Kind)
			return Event{FrameErr: ferr}, true
		}

		ObserveFrame(frame.Vendor, frame.Constellation)
		if winner := p.sel.Observe(frame); winner != nil {
			return p.processFrame(winner), true
		}
		// buffered for this tick; keep pulling until the tick closes.
	}
}

func (p *Pipeline) processFrame(f *SatFrame) Event {
	switch {
	case p.isL6:
		l6f := ParseL6Payload(f.PRN, f.Payload)
		sf, flushedPartial := p.l6.Add(l6f)
		if sf == nil {
			if flushedPartial {
				return Event{DecodeErr: NewDecodeError(ErrShortPayload, "l6-reassemble", f.PRN, f.Epoch.TOW, errShortPayload)}
			}
			return Event{Frame: f}
		}
		results := WalkCSSRSubframe(sf, p.dec, f.PRN, p.dialect, p.gridPts[f.PRN])
		if results == nil {
			results = []SubtypeResult{} // a completed subframe always yields a non-nil L6
		}
		p.trackGrid(f.PRN, results)
		return Event{Frame: f, L6: results}
	case p.isB2b:
		mt := ClassifyB2b(f.Payload)
		if mt == B2bMT63 {
			return Event{Frame: f}
		}
		results := WalkCSSRSubframe(f.Payload, p.dec, f.PRN, p.dialect, p.gridPts[f.PRN])
		p.trackGrid(f.PRN, results)
		return Event{Frame: f, B2b: results}
	case p.isL1S:
		msg, err := p.l1s.Decode(f.PRN, f.Payload)
		if err != nil {
			ObserveDecodeError(err.Kind)
			return Event{Frame: f, DecodeErr: err}
		}
		return Event{Frame: f, L1S: msg}
	default:
		return Event{Frame: f}
	}
}

func (p *Pipeline) trackGrid(prn int, results []SubtypeResult) {
	for _, r := range results {
		if r.Service != nil {
			p.gridPts[prn] = r.Service.NumGrids
		}
		if r.Err != nil {
			ObserveDecodeError(r.Err.Kind)
		}
	}
}

// AddHASPage feeds one Galileo HAS page directly (HAS has its own
// per-message-ID grouping independent of the tick-based L6/B2b frame path,
// spec.md §4.2).
func (p *Pipeline) AddHASPage(prn int, page HASPage) Event {
	res, err := p.has.Add(prn, page)
	if err != nil {
		ObserveDecodeError(err.Kind)
		return Event{DecodeErr: err}
	}
	if res == nil {
		return Event{}
	}
	results := WalkCSSRSubframe(res.Cleartext, p.dec, prn, DialectCLAS, p.gridPts[prn])
	p.trackGrid(prn, results)
	return Event{HAS: res, L6: results}
}

// RunRTCM drains an RTCM3Framer fed by r byte-by-byte, invoking fn per
// decoded message or framing error; returns on clean EOF or a non-nil I/O
// error (spec.md §6 exit-code convention).
func RunRTCM(r io.Reader, fn func(Event)) error {
	framer := NewRTCM3Framer()
	buf := make([]uint8, 4096)
	for {
		n, err := r.Read(buf)
		for i := 0; i < n; i++ {
			if msg, rerr, ok := framer.Feed(buf[i]); ok {
				if rerr != nil {
					fn(Event{RtcmErr: rerr})
				} else {
					fn(Event{Rtcm: msg})
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
