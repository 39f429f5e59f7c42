package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"lukechampine.com/flagg"

	"github.com/vibesync/sigprint/fingerprint"
)

var (
	rootUsage = `Usage:
    sigprint [flags] [action]

Actions:
    sign          compute fingerprint signature(s) for a WAV file
    inspect       dump a signature file as human-readable JSON
`
	versionUsage = rootUsage
	signUsage    = `Usage:
    sigprint sign [flags] <wav-file>

Decodes a WAV file, resamples it to 16 kHz mono, and runs it through
the fingerprint generator, writing each emitted signature to disk.
`
	inspectUsage = `Usage:
    sigprint inspect [flags] <signature-file>

Decodes a signature file produced by "sign" and prints its contents as
JSON. The JSON layout is diagnostic only; it is not the wire format.
`
)

func main() {
	log.SetFlags(0)
	rootCmd := flagg.Root
	rootCmd.Usage = flagg.SimpleUsage(rootCmd, rootUsage)
	versionCmd := flagg.New("version", versionUsage)

	signCmd := flagg.New("sign", signUsage)
	out := signCmd.String("out", "", "output path prefix (default: <input>.sig; <input>.sig.0, <input>.sig.1, ... for multiple)")
	maxSeconds := signCmd.Float64("max-seconds", 30, "time cap, in seconds, per emitted signature")
	maxPeaks := signCmd.Int("max-peaks", 255, "peak-count cap per emitted signature")
	loopMode := signCmd.String("loop-mode", "source-or", "cap combination: \"source-or\" (stop when both caps are met) or \"stop-at-first-cap\"")
	quiet := signCmd.Bool("quiet", false, "suppress the progress UI")

	inspectCmd := flagg.New("inspect", inspectUsage)

	cmd := flagg.Parse(flagg.Tree{
		Cmd: rootCmd,
		Sub: []flagg.Tree{
			{Cmd: versionCmd},
			{Cmd: signCmd},
			{Cmd: inspectCmd},
		},
	})
	args := cmd.Args()

	switch cmd {
	case rootCmd, versionCmd:
		if len(args) > 0 {
			cmd.Usage()
			return
		}
		fmt.Println("sigprint v0.1.0")

	case signCmd:
		if len(args) != 1 {
			cmd.Usage()
			return
		}
		mode, err := parseLoopMode(*loopMode)
		if err != nil {
			log.Fatalln("Error:", err)
		}
		if err := runSignCmd(args[0], *out, *maxSeconds, *maxPeaks, mode, *quiet); err != nil {
			log.Fatalln("Error:", err)
		}

	case inspectCmd:
		if len(args) != 1 {
			cmd.Usage()
			return
		}
		if err := runInspectCmd(args[0]); err != nil {
			log.Fatalln("Error:", err)
		}
	}
}

func parseLoopMode(s string) (fingerprint.LoopMode, error) {
	switch strings.ToLower(s) {
	case "source-or":
		return fingerprint.LoopModeSourceOr, nil
	case "stop-at-first-cap":
		return fingerprint.LoopModeStopAtFirstCap, nil
	default:
		return 0, fmt.Errorf("unknown loop mode %q", s)
	}
}

func runSignCmd(path, outPrefix string, maxSeconds float64, maxPeaks int, mode fingerprint.LoopMode, quiet bool) error {
	samples, err := loadPCM16kHzMono(path)
	if err != nil {
		return err
	}

	sigs, err := runSign(path, samples, quiet,
		fingerprint.WithCaps(maxSeconds, maxPeaks),
		fingerprint.WithLoopMode(mode),
	)
	if err != nil {
		return err
	}

	if outPrefix == "" {
		outPrefix = path + ".sig"
	}
	for i, sig := range sigs {
		dest := outPrefix
		if len(sigs) > 1 {
			dest = fmt.Sprintf("%s.%d", outPrefix, i)
		}
		if err := os.WriteFile(dest, fingerprint.Encode(sig), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d peaks, %.2fs)\n", dest, sig.TotalPeaks(), sig.Seconds())
	}
	return nil
}

func runInspectCmd(path string) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sig, err := fingerprint.Decode(buf)
	if err != nil {
		return err
	}
	j, err := sig.DebugJSON()
	if err != nil {
		return err
	}
	fmt.Println(string(j))
	return nil
}
