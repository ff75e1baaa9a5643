//go:build windows

package main

import (
	"github.com/born-ml/texreshape/backend/webgpu"
	"github.com/born-ml/texreshape/reshape"
)

func init() {
	backends["webgpu"] = func() (reshape.Backend, func(), error) {
		b, err := webgpu.New()
		if err != nil {
			return nil, nil, err
		}
		return b, b.Release, nil
	}
}
