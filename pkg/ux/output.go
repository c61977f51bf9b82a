// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ux

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/luxfi/assetfactory/pkg/deployment"
	"github.com/luxfi/assetfactory/pkg/registry"
	luxlog "github.com/luxfi/log"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var Logger *UserLog

type UserLog struct {
	log    luxlog.Logger
	writer io.Writer
}

func NewUserLog(log luxlog.Logger, userwriter io.Writer) {
	if Logger == nil {
		Logger = &UserLog{
			log:    log,
			writer: userwriter,
		}
	}
}

// Writer is where user facing output goes.
func (ul *UserLog) Writer() io.Writer {
	return ul.writer
}

// PrintToUser prints msg to the user writer. It is not logged.
func (ul *UserLog) PrintToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
}

func (ul *UserLog) Info(msg string, args ...interface{}) {
	ul.log.Info(fmt.Sprintf(msg, args...))
}

func (ul *UserLog) Error(msg string, args ...interface{}) {
	ul.log.Error(fmt.Sprintf(msg, args...))
}

// RedXToUser prints a red X error message to the user
func (ul *UserLog) RedXToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✗ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
	ul.log.Error(formattedMsg)
}

// GreenCheckmarkToUser prints a green checkmark success message to the user
func (ul *UserLog) GreenCheckmarkToUser(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf("✓ %s", fmt.Sprintf(msg, args...))
	_, _ = fmt.Fprintln(ul.writer, formattedMsg)
	ul.log.Info(formattedMsg)
}

// PrintError prints a visible error message with ERROR prefix to the user
func (ul *UserLog) PrintError(msg string, args ...interface{}) {
	formattedMsg := fmt.Sprintf(msg, args...)
	_, _ = fmt.Fprintf(ul.writer, "\nERROR: %s\n\n", formattedMsg)
	ul.log.Error(formattedMsg)
}

// PrintEvent prints one deployment event as a single line and records it.
func (ul *UserLog) PrintEvent(ev deployment.Event) {
	switch ev.Status {
	case deployment.StatusComplete:
		ul.GreenCheckmarkToUser("%s", describeEvent(ev))
	case deployment.StatusError:
		ul.RedXToUser("%s", describeEvent(ev))
	default:
		ul.PrintToUser("  %s", describeEvent(ev))
	}
	ul.log.Debug("deployment event",
		"type", string(ev.Type),
		"status", string(ev.Status),
		"contract", ev.ContractName,
		"function", ev.FunctionName,
	)
}

func describeEvent(ev deployment.Event) string {
	target := ev.ContractName
	if ev.FunctionName != "" {
		target += "." + ev.FunctionName
	}
	line := fmt.Sprintf("%-10s %s", ev.Status, target)
	switch {
	case ev.Error != nil:
		line += ": " + ev.Error.Error()
	case ev.Receipt != nil && ev.Type == deployment.ContractEvent:
		line += " at " + ev.Receipt.ContractAddress.Hex()
	case ev.Transaction != nil:
		line += " tx " + ev.Transaction.Hash().Hex()
	}
	return line
}

// StepTracker tracks progress of multi-step operations with elapsed time
type StepTracker struct {
	stepStart time.Time
	stepName  string
	ul        *UserLog
}

func NewStepTracker(ul *UserLog) *StepTracker {
	return &StepTracker{ul: ul}
}

// Start begins tracking a new step
func (st *StepTracker) Start(stepName string) {
	st.stepStart = time.Now()
	st.stepName = stepName
	st.ul.PrintToUser("%s...", stepName)
}

func (st *StepTracker) Elapsed() time.Duration {
	return time.Since(st.stepStart)
}

// Complete marks the step as done with success
func (st *StepTracker) Complete(suffix string) {
	elapsed := st.Elapsed()
	if suffix != "" {
		st.ul.GreenCheckmarkToUser("%s (%.1fs) - %s", st.stepName, elapsed.Seconds(), suffix)
	} else {
		st.ul.GreenCheckmarkToUser("%s (%.1fs)", st.stepName, elapsed.Seconds())
	}
}

// Failed marks the step as failed with an error
func (st *StepTracker) Failed(reason string) {
	elapsed := st.Elapsed()
	st.ul.RedXToUser("%s (%.1fs) - FAILED: %s", st.stepName, elapsed.Seconds(), reason)
}

// PrintDeployedContracts renders the result of a deployment, sorted by
// contract name.
func PrintDeployedContracts(w io.Writer, contracts deployment.DeployedContracts) {
	names := make([]string, 0, len(contracts))
	for name := range contracts {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	table.Header("Contract", "Address", "Tx Hash", "Block", "Gas Used")
	for _, name := range names {
		c := contracts[name]
		row := []string{name, c.Address.Hex(), "", "", ""}
		if c.Receipt != nil {
			row[2] = c.Receipt.TxHash.Hex()
			if c.Receipt.BlockNumber != nil {
				row[3] = c.Receipt.BlockNumber.String()
			}
			row[4] = ConvertToStringWithThousandSeparator(c.Receipt.GasUsed)
		}
		_ = table.Append(row)
	}
	_ = table.Render()
}

// PrintRegistry renders the published library versions.
func PrintRegistry(w io.Writer, listings []registry.Listing) {
	table := tablewriter.NewWriter(w)
	table.Header("Chain", "Contract", "Version", "Default", "Library", "Bytecode")
	for _, l := range listings {
		address := "-"
		if l.Address != nil {
			address = l.Address.Hex()
		}
		_ = table.Append([]string{
			fmt.Sprintf("%d", l.ChainID),
			string(l.Kind),
			l.Version,
			yesNo(l.Default),
			address,
			yesNo(l.HasBytecode),
		})
	}
	_ = table.Render()
}

// PrintKeyValues renders rows of two columns in the given order.
func PrintKeyValues(w io.Writer, header [2]string, rows [][2]string) {
	table := tablewriter.NewWriter(w)
	table.Header(header[0], header[1])
	for _, r := range rows {
		_ = table.Append([]string{r[0], r[1]})
	}
	_ = table.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func ConvertToStringWithThousandSeparator(input uint64) string {
	p := message.NewPrinter(language.English)
	s := p.Sprintf("%d", input)
	return strings.ReplaceAll(s, ",", "_")
}
