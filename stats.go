package augstream

/*------------------------------------------------------------------------------
* stats.go : Prometheus metrics (ADDED ambient stack, §6 -metrics flag)
*
* gnssgo/app/plot imports github.com/prometheus/client_golang but never
* registers a collector with it; augstream puts the dependency to active use:
* one counter per FrameError/DecodeError kind, a gauge mirroring the latest
* CSSRStats bit-accounting snapshot per (PRN,dialect), grounded on the
* counter/gauge-per-event shape common across the client_golang examples in
* the pack.
 */

import "github.com/prometheus/client_golang/prometheus"

var (
	framesDecoded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "augstream_frames_decoded_total",
		Help: "Decoded satellite frames by vendor and constellation.",
	}, []string{"vendor", "constellation"})

	frameErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "augstream_frame_errors_total",
		Help: "Frame-stage errors by kind.",
	}, []string{"kind"})

	decodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "augstream_decode_errors_total",
		Help: "CSSR/RTCM decode-stage errors by kind.",
	}, []string{"kind"})

	cssrBitTotal = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "augstream_cssr_bits_total",
		Help: "Most recent CSSR mask-epoch bit-accounting total, by bucket.",
	}, []string{"prn", "dialect", "bucket"})
)

// RegisterMetrics registers all augstream collectors on reg. Call once at
// startup (spec.md §6 -metrics ADDR wiring); a nil reg registers on the
// default Prometheus registry.
func RegisterMetrics(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{framesDecoded, frameErrors, decodeErrors, cssrBitTotal} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveFrame records one successfully decoded frame.
func ObserveFrame(vendor string, c Constellation) {
	framesDecoded.WithLabelValues(vendor, c.String()).Inc()
}

// ObserveFrameError records one framer-stage failure.
func ObserveFrameError(kind ErrorKind) {
	frameErrors.WithLabelValues(kind.String()).Inc()
}

// ObserveDecodeError records one CSSR/RTCM-stage failure.
func ObserveDecodeError(kind ErrorKind) {
	decodeErrors.WithLabelValues(kind.String()).Inc()
}

// ObserveCSSRStats snapshots a mask epoch's bit-accounting totals into the
// gauge vector (spec.md §8's bit-accounting identity, surfaced for scraping).
func ObserveCSSRStats(prn int, dialect Dialect, st *CSSRStats) {
	prnLabel := SatLabel(ConstNone, prn)
	cssrBitTotal.WithLabelValues(prnLabel, dialect.String(), "sat").Set(float64(st.BitSat))
	cssrBitTotal.WithLabelValues(prnLabel, dialect.String(), "sig").Set(float64(st.BitSig))
	cssrBitTotal.WithLabelValues(prnLabel, dialect.String(), "other").Set(float64(st.BitOther))
	cssrBitTotal.WithLabelValues(prnLabel, dialect.String(), "null").Set(float64(st.BitNull))
	cssrBitTotal.WithLabelValues(prnLabel, dialect.String(), "total").Set(float64(st.BitTotal))
}
