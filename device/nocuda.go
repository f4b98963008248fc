//go:build !cuda

package device

import "github.com/pkg/errors"

func probeCUDA() ([]GPU, error) {
	return nil, errors.New("device: built without cuda tag")
}
