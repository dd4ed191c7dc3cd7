package orchestrator

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
)

// Step identifies one stage of the per-pair configuration sequence
type Step string

const (
	StepOracle       Step = "oracle"
	StepFee          Step = "fee"
	StepCounterparty Step = "counterparty"
	StepLiquidity    Step = "liquidity"
	StepSeed         Step = "seed"
)

type Status string

const (
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// StepResult is the outcome of a single contract call
type StepResult struct {
	Pair   Pair
	Step   Step
	Method string
	// Subject is what the call was about: an oracle, a counterparty chain, a token
	Subject string
	TxHash  common.Hash
	// Detail carries read results such as the current liquidity
	Detail  string
	Err     error
	Skipped bool
}

func (r StepResult) Status() Status {
	switch {
	case r.Skipped:
		return StatusSkipped
	case r.Err != nil:
		return StatusFailed
	default:
		return StatusDone
	}
}

// Report aggregates the step results of one run in plan order
type Report struct {
	Results  []StepResult
	Started  time.Time
	Finished time.Time
}

func (r *Report) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status() == status {
			n++
		}
	}
	return n
}

func (r *Report) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}

// Calls returns the results of every step that invoked method
func (r *Report) Calls(method string) []StepResult {
	var out []StepResult
	for _, res := range r.Results {
		if res.Method == method {
			out = append(out, res)
		}
	}
	return out
}

// Render writes the results as a table followed by a one line summary
func (r *Report) Render(w io.Writer, networkName func(uint64) string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Network", "Contract", "Step", "Method", "Subject", "Status", "Tx / Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for i, res := range r.Results {
		outcome := res.Detail
		switch {
		case res.Err != nil:
			outcome = res.Err.Error()
		case res.TxHash != (common.Hash{}):
			outcome = res.TxHash.Hex()
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			networkName(res.Pair.ChainID),
			res.Pair.Contract,
			string(res.Step),
			res.Method,
			res.Subject,
			string(res.Status()),
			outcome,
		})
	}
	table.Render()

	_, _ = fmt.Fprintf(w, "%d done, %d failed, %d skipped in %s\n",
		r.Count(StatusDone), r.Count(StatusFailed), r.Count(StatusSkipped),
		r.Finished.Sub(r.Started).Round(time.Millisecond))
}
