// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package ux

import (
	"fmt"
	"io"

	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/schollz/progressbar/v3"
)

// DeploymentBar counts mined transactions of a deployment whose length is
// not known up front.
type DeploymentBar struct {
	bar   *progressbar.ProgressBar
	mined int
}

func NewDeploymentBar(w io.Writer, task string) *DeploymentBar {
	bar := progressbar.NewOptions(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", task)),
	)
	return &DeploymentBar{bar: bar}
}

// Observe advances the bar on every mined transaction or contract.
func (d *DeploymentBar) Observe(ev deployment.Event) {
	if ev.Status != deployment.StatusComplete {
		return
	}
	d.mined++
	_ = d.bar.Add(1)
	name := ev.ContractName
	if ev.FunctionName != "" {
		name += "." + ev.FunctionName
	}
	d.bar.Describe(name)
}

// Mined returns how many completions were observed.
func (d *DeploymentBar) Mined() int {
	return d.mined
}

func (d *DeploymentBar) Finish() {
	_ = d.bar.Finish()
	_ = d.bar.Clear()
}
