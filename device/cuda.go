//go:build cuda

package device

import "fmt"

import "github.com/pkg/errors"
import "gorgonia.org/cu"

func probeCUDA() (gpus []GPU, err error) {
	devices, err := cu.NumDevices()
	if err != nil {
		return nil, errors.Wrap(err, "device: cuda")
	}
	for d := 0; d < devices; d++ {
		name, _ := cu.Device(d).Name()
		mem, _ := cu.Device(d).TotalMem()
		maj, _ := cu.Device(d).Attribute(cu.ComputeCapabilityMajor)
		min, _ := cu.Device(d).Attribute(cu.ComputeCapabilityMinor)
		gpus = append(gpus, GPU{
			Index:   d,
			Name:    name,
			Memory:  uint64(mem),
			Compute: fmt.Sprintf("%d.%d", maj, min),
		})
	}
	return gpus, nil
}
