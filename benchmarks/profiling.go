package benchmarks

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type profiles struct {
	cpu string
	mem string
}

func (p *profiles) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.cpu, "cpuprofile", "", "Write a CPU profile with this name into the save folder")
	cmd.Flags().StringVar(&p.mem, "memprofile", "", "Write a heap profile with this name into the save folder")
}

// start begins CPU profiling, the returned function stops it and writes the heap profile
func (p *profiles) start(dir string, logger zerolog.Logger) (func(), error) {
	var cpuFile *os.File
	if p.cpu != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return nil, err
		}
		cpuProfPath := path.Join(dir, p.cpu)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, fmt.Errorf("could not create CPU profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("could not start CPU profile: %w", err)
		}
		logger.Info().Str("path", cpuProfPath).Msg("profiling CPU")
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if p.mem == "" {
			return
		}
		if err := os.MkdirAll(dir, 0777); err != nil {
			logger.Error().Err(err).Msg("could not create memory profile folder")
			return
		}
		memProfPath := path.Join(dir, p.mem)
		f, err := os.Create(memProfPath)
		if err != nil {
			logger.Error().Err(err).Msg("could not create memory profile")
			return
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.Error().Err(err).Msg("could not write memory profile")
			return
		}
		logger.Info().Str("path", memProfPath).Msg("wrote heap profile")
	}, nil
}
