package benchmarks

import (
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/zeu5/smartcab-rl/util"
)

// startProfiling starts the cpu profile if requested. The returned function
// stops it and writes the heap profile
func startProfiling(savePath string, logger log.Logger) (func(), error) {
	if cpuprofile == "" && memprofile == "" {
		return func() {}, nil
	}
	if err := util.EnsureDir(savePath); err != nil {
		return nil, err
	}

	var cpuFile *os.File
	if cpuprofile != "" {
		cpuProfPath := path.Join(savePath, cpuprofile)
		level.Info(logger).Log("msg", "profiling cpu", "path", cpuProfPath)
		f, err := os.Create(cpuProfPath)
		if err != nil {
			return nil, errors.Wrap(err, "could not create CPU profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "could not start CPU profile")
		}
		cpuFile = f
	}

	return func() {
		if cpuFile != nil {
			pprof.StopCPUProfile()
			cpuFile.Close()
		}
		if memprofile == "" {
			return
		}
		memProfPath := path.Join(savePath, memprofile)
		f, err := os.Create(memProfPath)
		if err != nil {
			level.Error(logger).Log("msg", "could not create memory profile", "err", err)
			return
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			level.Error(logger).Log("msg", "could not write memory profile", "err", err)
		}
	}, nil
}
