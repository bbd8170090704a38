package orchestrator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hashgraph-online/hts-contract-demo-go/pkg/artifact"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/ledger"
	"github.com/hashgraph-online/hts-contract-demo-go/pkg/shared"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// BytecodeSource produces the contract bytecode to upload.
type BytecodeSource func(ctx context.Context) (artifact.Bytecode, error)

// FileBytecode reads the artifact at path with artifact.Load.
func FileBytecode(path string) BytecodeSource {
	return func(ctx context.Context) (artifact.Bytecode, error) {
		if err := ctx.Err(); err != nil {
			return artifact.Bytecode{}, err
		}
		return artifact.Load(path)
	}
}

// Step is one stage of the pipeline. Run reads identifiers produced by
// earlier steps from state and stores its own.
type Step struct {
	Name string
	Run  func(ctx context.Context, state *State) error
}

type Option func(*Orchestrator)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOutput sets where progress lines are written. The default discards them.
func WithOutput(out io.Writer) Option {
	return func(o *Orchestrator) {
		if out != nil {
			o.out = out
		}
	}
}

type Orchestrator struct {
	ledger   ledger.Ledger
	accounts shared.Accounts
	bytecode BytecodeSource
	config   Config
	logger   *zap.Logger
	out      io.Writer
	metrics  *metrics
}

// New creates a new Orchestrator.
func New(
	ledgerClient ledger.Ledger,
	accounts shared.Accounts,
	bytecode BytecodeSource,
	config Config,
	options ...Option,
) (*Orchestrator, error) {
	if ledgerClient == nil {
		return nil, fmt.Errorf("ledger is required")
	}
	if bytecode == nil {
		return nil, fmt.Errorf("bytecode source is required")
	}
	if accounts.Treasury.ID.Account == 0 {
		return nil, fmt.Errorf("treasury account is required")
	}
	if accounts.Receiver.ID.Account == 0 {
		return nil, fmt.Errorf("receiver account is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run configuration: %w", err)
	}

	o := &Orchestrator{
		ledger:   ledgerClient,
		accounts: accounts,
		bytecode: bytecode,
		config:   config,
		logger:   zap.NewNop(),
		out:      io.Discard,
		metrics:  newMetrics(),
	}
	for _, option := range options {
		option(o)
	}
	o.logger = o.logger.Named("orchestrator")

	return o, nil
}

// Gatherer exposes the step metrics of every run made by o.
func (o *Orchestrator) Gatherer() prometheus.Gatherer {
	return o.metrics.registry
}

// Run executes the steps in order and stops at the first failure, returning a
// *StepError. The report is returned in both cases.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	steps := o.Steps()
	state := newState()
	results := make([]StepResult, 0, len(steps))

	o.logger.Info("starting run",
		zap.String("network", o.accounts.Network),
		zap.String("treasury", o.accounts.Treasury.ID.String()),
		zap.String("receiver", o.accounts.Receiver.ID.String()),
		zap.Int("steps", len(steps)),
	)

	for index, step := range steps {
		err := ctx.Err()
		var elapsed time.Duration
		if err == nil {
			started := time.Now()
			err = step.Run(ctx, state)
			elapsed = time.Since(started)
		}

		if err != nil {
			o.metrics.observe(step.Name, outcomeFailure, elapsed)
			results = append(results, StepResult{
				Name:     step.Name,
				Outcome:  outcomeFailure,
				Duration: elapsed,
				Error:    err.Error(),
			})
			for _, skipped := range steps[index+1:] {
				o.metrics.observe(skipped.Name, outcomeSkipped, 0)
				results = append(results, StepResult{Name: skipped.Name, Outcome: outcomeSkipped})
			}
			o.logger.Error("step failed", zap.String("step", step.Name), zap.Duration("elapsed", elapsed), zap.Error(err))
			return buildReport(o.accounts.Network, state, results), &StepError{Step: step.Name, Err: err}
		}

		o.metrics.observe(step.Name, outcomeSuccess, elapsed)
		results = append(results, StepResult{Name: step.Name, Outcome: outcomeSuccess, Duration: elapsed})
		o.logger.Debug("step completed", zap.String("step", step.Name), zap.Duration("elapsed", elapsed))
	}

	report := buildReport(o.accounts.Network, state, results)
	o.logger.Info("run completed", zap.String("token", report.TokenID), zap.String("contract", report.ContractID))
	return report, nil
}

func (o *Orchestrator) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}
