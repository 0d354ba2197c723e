package application

import (
	"context"
	"log/slog"

	"github.com/prpilot/prpilot/internal/domain/model"
	"github.com/prpilot/prpilot/internal/domain/port/driven"
)

// LogCorrelator turns failed checks into CI step logs by following each
// check's detail URL back to the provider job that produced it.
type LogCorrelator struct {
	logger *slog.Logger
	ci     driven.CIJobFetcher
}

// NewLogCorrelator builds a correlator over the given CI fetcher.
func NewLogCorrelator(logger *slog.Logger, ci driven.CIJobFetcher) *LogCorrelator {
	return &LogCorrelator{logger: logger, ci: ci}
}

// CorrelateFailureLogs fetches failed-step logs for every failed check whose
// detail URL is recognized. Checks with no URL, a foreign URL, or an
// unparseable URL are skipped silently; a fetch failure for one check is
// logged and does not stop the others. Logs are best-effort diagnostics and
// must never turn a triage run into an error.
func (l *LogCorrelator) CorrelateFailureLogs(ctx context.Context, summary model.CheckSummary) []model.FailedStepLog {
	var all []model.FailedStepLog

	for _, check := range summary.Failed() {
		if check.DetailURL == "" || !model.IsCIJobURL(check.DetailURL) {
			continue
		}
		job, ok := model.ParseCIJobURL(check.DetailURL)
		if !ok {
			continue
		}

		logs, err := l.failedStepLogs(ctx, job)
		if err != nil {
			l.logger.Warn("fetching CI logs failed", "check", check.Name, "error", err)
			continue
		}
		all = append(all, logs...)
	}

	return all
}

// failedStepLogs returns the output of every failed step action in a job,
// in the job's own step order.
func (l *LogCorrelator) failedStepLogs(ctx context.Context, job model.CIJobInfo) ([]model.FailedStepLog, error) {
	details, err := l.ci.FetchJobDetails(ctx, job)
	if err != nil {
		return nil, err
	}

	var logs []model.FailedStepLog
	for _, step := range details.Steps {
		for _, action := range step.Actions {
			if !action.Failed {
				continue
			}
			output, err := l.ci.FetchStepOutput(ctx, job, action.Index, action.Step)
			if err != nil {
				return nil, err
			}
			logs = append(logs, model.FailedStepLog{
				JobName:  details.JobName,
				StepName: step.Name,
				Stdout:   output.Stdout,
				Stderr:   output.Stderr,
			})
		}
	}
	return logs, nil
}
