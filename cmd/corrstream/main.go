// Command corrstream reads a raw vendor receiver byte stream on standard
// input and writes either pretty-printed diagnostics or extracted payload
// bytes to standard output (spec.md §6).
package main

/*------------------------------------------------------------------------------
* main.go : corrstream CLI entry point (§6)
*
* Flag layout and the payload-vs-diagnostics output split come straight from
* spec.md §6. Structurally grounded on gnssgo/app/str2str/str2str.go (a
* thin flag-parsing CLI wrapping a long-lived decode loop over stdin) rather
* than rtkrcv's interactive console, since corrstream is a one-shot stream
* filter, not a server.
 */

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	serial "github.com/tarm/goserial"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"augstream"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

type flags struct {
	vendor      string
	dialect     string
	pinnedPRN   int
	emitL6      bool
	emitE6B     bool
	emitINAV    bool
	emitB2b     bool
	emitL1S     bool
	emitRTCM    bool
	emitQZSLNAV bool
	verbosity   int
	forceDiag   bool
	color       bool
	dupDCR      bool
	configPath  string
	sinkDSN     string
	metricsAddr string
	serialPort  string
}

func run(args []string) int {
	f := parseFlags(args)

	if f.configPath != "" {
		cfg, err := augstream.LoadConfig(f.configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "corrstream:", err)
			return 1
		}
		applyConfig(&f, cfg)
	}

	augstream.TraceLevel(f.verbosity)
	if err := augstream.RegisterMetrics(nil); err != nil {
		fmt.Fprintln(os.Stderr, "corrstream: metrics:", err)
		return 1
	}

	var g errgroup.Group
	if f.metricsAddr != "" {
		g.Go(func() error {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			return http.ListenAndServe(f.metricsAddr, mux)
		})
	}

	var sink *augstream.FrameSink
	if f.sinkDSN != "" {
		s, err := augstream.OpenFrameSink(augstream.SinkConfig{DSN: f.sinkDSN})
		if err != nil {
			fmt.Fprintln(os.Stderr, "corrstream: sink:", err)
			return 1
		}
		sink = s
		defer sink.Close()
		augstream.SetRunID(sink.RunID())
	} else {
		augstream.SetRunID(uuid.New().String())
	}

	out := os.Stdout
	diag := out
	if payloadFlagSet(f) && !f.forceDiag {
		diag = nil
	} else if payloadFlagSet(f) && f.forceDiag {
		diag = os.Stderr
	}

	var in io.Reader = os.Stdin
	if f.serialPort != "" {
		port, closer, err := openSerial(f.serialPort)
		if err != nil {
			fmt.Fprintln(os.Stderr, "corrstream: serial:", err)
			return 1
		}
		defer closer.Close()
		in = port
	}

	code := drive(f, in, out, diag, sink)
	return code
}

func payloadFlagSet(f flags) bool {
	return f.emitL6 || f.emitE6B || f.emitINAV || f.emitB2b || f.emitL1S || f.emitRTCM || f.emitQZSLNAV
}

// openSerial opens a receiver's serial port for corrstream's -serial flag
// (spec.md §6 treats stdin as the byte source by default; goserial extends
// that to a directly-attached receiver, grounded on
// gnssgo/src/stream.go's serial.Config{Name,Baud}/serial.OpenPort call).
func openSerial(spec string) (io.ReadWriteCloser, io.Closer, error) {
	name, baudStr := spec, "115200"
	if idx := strings.LastIndex(spec, ":"); idx >= 0 {
		name, baudStr = spec[:idx], spec[idx+1:]
	}
	baud, err := strconv.Atoi(baudStr)
	if err != nil {
		return nil, nil, err
	}
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, nil, err
	}
	return port, port, nil
}

func drive(f flags, in io.Reader, payloadOut, diagOut *os.File, sink *augstream.FrameSink) int {
	var src augstream.FrameSource
	kind := ""
	r := bufio.NewReader(in)

	switch f.vendor {
	case "novatel":
		src = newByteFeeder(r, augstream.NewNovAtelFramer())
	case "sbf":
		src = newByteFeeder(r, augstream.NewSBFFramer())
	case "ublox":
		src = newByteFeeder(r, augstream.NewUBloxFramer(0, 0))
	case "pocketsdr":
		src = augstream.NewPocketSDRFramer(r, f.emitL6)
	default:
		src = newByteFeeder(r, augstream.NewAllystarFramer())
	}
	if f.emitL6 || f.emitE6B {
		kind = "l6"
	}
	if f.emitB2b {
		kind = "b2b"
	}
	if f.emitL1S {
		kind = "l1s"
	}

	pipe := augstream.NewPipeline(src, kind, dialectOf(f.dialect), f.pinnedPRN)
	writer := bufio.NewWriter(payloadOut)
	defer writer.Flush()

	for {
		ev, ok := pipe.Next()
		if !ok {
			return 0
		}
		reportEvent(f, ev, writer, diagOut, sink)
	}
}

func dialectOf(s string) augstream.Dialect {
	switch s {
	case "madoca-ppp":
		return augstream.DialectMADOCAPPP
	case "beidou":
		return augstream.DialectBeiDou
	default:
		return augstream.DialectCLAS
	}
}

func reportEvent(f flags, ev augstream.Event, payloadOut *bufio.Writer, diagOut *os.File, sink *augstream.FrameSink) {
	if ev.Frame != nil {
		if sink != nil {
			sink.WriteFrame(ev.Frame)
		}
		if payloadFlagSet(f) {
			payloadOut.Write(ev.Frame.Payload)
		}
	}
	if diagOut == nil {
		return
	}
	switch {
	case ev.FrameErr != nil:
		fmt.Fprintln(diagOut, ev.FrameErr.Error())
	case ev.RtcmErr != nil:
		fmt.Fprintln(diagOut, ev.RtcmErr.Error())
	case ev.DecodeErr != nil:
		fmt.Fprintln(diagOut, ev.DecodeErr.Error())
	case ev.Frame != nil:
		label := augstream.SatLabel(ev.Frame.Constellation, ev.Frame.PRN)
		fmt.Fprintf(diagOut, "%d %s:1  tow=%d cno=%.1f\n", ev.Frame.Epoch.TOW, label, ev.Frame.Epoch.TOW, ev.Frame.CNo)
		for _, r := range ev.L6 {
			reportSubtype(diagOut, r, f.verbosity)
		}
		for _, r := range ev.B2b {
			reportSubtype(diagOut, r, f.verbosity)
		}
		if ev.L1S != nil {
			reportL1S(diagOut, ev.L1S)
		}
	}
}

func reportL1S(diagOut *os.File, m *augstream.L1SMessage) {
	fmt.Fprintf(diagOut, "  MT%d %s", m.MT, m.Name)
	switch {
	case m.DGPS != nil:
		fmt.Fprintf(diagOut, ": %s\n", m.DGPS.Station)
		for _, c := range m.DGPS.Corrections {
			fmt.Fprintf(diagOut, "    %s PRC=%.2f m\n", c.SV, c.PRCMeter)
		}
	case m.PRNMask != nil:
		fmt.Fprintf(diagOut, ": %d sats, IODP=%d\n", len(m.PRNMask.Sats), m.PRNMask.IODP)
	case m.Health != nil:
		fmt.Fprintf(diagOut, ": %d unhealthy\n", len(m.Health.Unhealthy))
	default:
		fmt.Fprintln(diagOut)
	}
}

func reportSubtype(diagOut *os.File, r augstream.SubtypeResult, verbosity int) {
	if r.Err != nil {
		fmt.Fprintf(diagOut, "  ST%d %s\n", r.Subtype, r.Err.Error())
		return
	}
	fmt.Fprintf(diagOut, " ST%d", r.Subtype)
	if verbosity >= 1 {
		fmt.Fprintln(diagOut)
	}
}

// byteFeeder adapts a byte-at-a-time Feed(b) framer to the pull-based
// FrameSource interface (spec.md §9's "lazy sequence" shape).
type byteFeeder struct {
	r     *bufio.Reader
	feed  func(b uint8) (*augstream.SatFrame, *augstream.FrameError, bool)
}

func newByteFeeder(r *bufio.Reader, framer interface {
	Feed(b uint8) (*augstream.SatFrame, *augstream.FrameError, bool)
}) *byteFeeder {
	return &byteFeeder{r: r, feed: framer.Feed}
}

func (b *byteFeeder) Next() (*augstream.SatFrame, *augstream.FrameError, bool) {
	for {
		c, err := b.r.ReadByte()
		if err != nil {
			return nil, nil, false
		}
		if frame, ferr, ok := b.feed(c); ok {
			return frame, ferr, true
		}
	}
}

func parseFlags(args []string) flags {
	f := flags{verbosity: 0}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-l":
			f.emitL6 = true
		case "-e":
			f.emitE6B = true
		case "-i":
			f.emitINAV = true
		case "-b":
			f.emitB2b = true
		case "-l1s":
			f.emitL1S = true
		case "-r":
			f.emitRTCM = true
		case "-q":
			f.emitQZSLNAV = true
		case "-m":
			f.forceDiag = true
		case "-c":
			f.color = true
		case "-d":
			f.dupDCR = true
		case "-vendor":
			i++
			f.vendor = args[i]
		case "-dialect":
			i++
			f.dialect = args[i]
		case "-p":
			i++
			fmt.Sscanf(args[i], "%d", &f.pinnedPRN)
		case "-t":
			i++
			fmt.Sscanf(args[i], "%d", &f.verbosity)
		case "-config":
			i++
			f.configPath = args[i]
		case "-sink":
			i++
			f.sinkDSN = args[i]
		case "-metrics":
			i++
			f.metricsAddr = args[i]
		case "-serial":
			i++
			f.serialPort = args[i]
		}
	}
	return f
}

func applyConfig(f *flags, cfg *augstream.Config) {
	if f.vendor == "" {
		f.vendor = cfg.Vendor
	}
	if f.dialect == "" {
		f.dialect = cfg.Dialect
	}
	if f.pinnedPRN == 0 {
		f.pinnedPRN = cfg.PinnedPRN
	}
	if f.metricsAddr == "" {
		f.metricsAddr = cfg.MetricsAddr
	}
	if f.sinkDSN == "" {
		f.sinkDSN = cfg.Sink.DSN
	}
	if f.verbosity == 0 {
		f.verbosity = cfg.Verbosity
	}
	augstream.TraceOpen(cfg.Trace)
}
