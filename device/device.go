// Package device describes the hardware the encoder and the head run on.
package device

import "fmt"
import "runtime"

import "github.com/klauspost/cpuid/v2"
import "github.com/pkg/errors"

// GPU is one CUDA device.
type GPU struct {
	Index   int
	Name    string
	Memory  uint64
	Compute string
}

// Context is the device context handed to the encoder and the evaluator.
type Context struct {
	// Name is "cpu" or "cuda:<index>".
	Name string

	CPU      string
	Cores    int
	Threads  int
	Features []string

	GPUs []GPU
}

// CUDA reports whether the context targets a CUDA device.
func (c Context) CUDA() bool {
	return len(c.Name) > 5 && c.Name[:5] == "cuda:"
}

// GPU returns the index of the targeted CUDA device.
func (c Context) GPU() int {
	var n int
	if c.CUDA() {
		fmt.Sscanf(c.Name[5:], "%d", &n)
	}
	return n
}

// IntraOpThreads is the thread count for intra operator parallelism: the physical
// cores when known, the logical CPUs otherwise.
func (c Context) IntraOpThreads() int {
	if c.Cores > 0 {
		return c.Cores
	}
	if c.Threads > 0 {
		return c.Threads
	}
	return 1
}

func (c Context) String() string {
	if c.CUDA() && c.GPU() < len(c.GPUs) {
		g := c.GPUs[c.GPU()]
		return fmt.Sprintf("%s (%s, %d MiB, compute %s)", c.Name, g.Name, g.Memory>>20, g.Compute)
	}
	return fmt.Sprintf("%s (%s, %d cores, %d threads, %v)", c.Name, c.CPU, c.Cores, c.Threads, c.Features)
}

var features = []struct {
	id   cpuid.FeatureID
	name string
}{
	{cpuid.SSE4, "sse4.1"},
	{cpuid.AVX, "avx"},
	{cpuid.AVX2, "avx2"},
	{cpuid.FMA3, "fma3"},
	{cpuid.AVX512F, "avx512f"},
	{cpuid.AVX512DQ, "avx512dq"},
	{cpuid.ASIMD, "asimd"},
}

// Detect inspects the machine. prefer is "auto", "cpu" or "cuda"; "auto" and "cuda"
// select the first CUDA device when one is present (binaries built with -tags cuda).
func Detect(prefer string) (Context, error) {
	c := Context{
		Name:    "cpu",
		CPU:     cpuid.CPU.BrandName,
		Cores:   cpuid.CPU.PhysicalCores,
		Threads: cpuid.CPU.LogicalCores,
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	for _, f := range features {
		if cpuid.CPU.Supports(f.id) {
			c.Features = append(c.Features, f.name)
		}
	}

	switch prefer {
	case "", "auto", "cpu", "cuda":
	default:
		return c, errors.Errorf("device: unknown device %q", prefer)
	}
	if prefer == "cpu" {
		return c, nil
	}
	gpus, err := probeCUDA()
	if err != nil && prefer == "cuda" {
		return c, err
	}
	c.GPUs = gpus
	if len(gpus) > 0 {
		c.Name = "cuda:0"
	} else if prefer == "cuda" {
		return c, errors.New("device: no CUDA device")
	}
	return c, nil
}
