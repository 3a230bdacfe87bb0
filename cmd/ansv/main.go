// Command ansv runs the distributed All Nearest Smaller Values
// computation over the bytes of a file.
//
// The file is read at rank 0 as a plain byte sequence, one value per
// byte, and block-distributed across the worker group; a .sz suffix
// selects snappy-framed decompression. The gathered left and right
// arrays can optionally be written to a JSON file.
//
// Usage:
//
//	ansv [-p workers] [-out file] <filename>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/golang/snappy"
	"github.com/rs/zerolog"
	"github.com/sugawarayuuta/sonnet"
	"gonum.org/v1/gonum/stat"

	"github.com/esaliya/psac/ansv"
	"github.com/esaliya/psac/comm"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func readInput(name string) ([]uint64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if filepath.Ext(name) == ".sz" {
		r = snappy.NewReader(f)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	values := make([]uint64, len(data))
	for i, b := range data {
		values[i] = uint64(b)
	}
	return values, nil
}

// sentinelDensity returns the fraction of entries holding the sentinel,
// an upper bound on the positions with no nearest smaller value on the
// corresponding side.
func sentinelDensity(nsv []int) float64 {
	hits := make([]float64, len(nsv))
	for i, j := range nsv {
		if j == 0 {
			hits[i] = 1
		}
	}
	return stat.Mean(hits, nil)
}

type result struct {
	N     int   `json:"n"`
	Left  []int `json:"left"`
	Right []int `json:"right"`
}

func main() {
	workers := flag.Int("p", runtime.GOMAXPROCS(0), "number of workers in the group")
	out := flag.String("out", "", "write the gathered left/right arrays as JSON to this file")
	flag.Parse()
	if flag.NArg() != 1 || *workers < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-p workers] [-out file] <filename>\n", os.Args[0])
		os.Exit(1)
	}

	values, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("reading input")
	}
	log.Info().Str("file", flag.Arg(0)).Int("n", len(values)).Int("p", *workers).Msg("starting ansv")

	var left, right []int
	start := time.Now()
	err = comm.Run(*workers, func(c *comm.Comm) error {
		var global []uint64
		if c.Rank() == 0 {
			global = values
		}
		local, _, _ := comm.BlockDistribute(c, global, 0)
		l, r, err := ansv.Parallel(local, c)
		if err != nil {
			return err
		}
		gl := comm.GatherV(c, l, 0)
		gr := comm.GatherV(c, r, 0)
		if c.Rank() == 0 {
			left, right = gl, gr
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("ansv failed")
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Float64("left_sentinel_density", sentinelDensity(left)).
		Float64("right_sentinel_density", sentinelDensity(right)).
		Msg("ansv complete")

	if *out != "" {
		buf, err := sonnet.Marshal(result{N: len(values), Left: left, Right: right})
		if err != nil {
			log.Fatal().Err(err).Msg("encoding result")
		}
		if err := os.WriteFile(*out, buf, 0o644); err != nil {
			log.Fatal().Err(err).Msg("writing result")
		}
		log.Info().Str("file", *out).Msg("wrote result")
	}
}
