package judge

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"minoj/internal/config"
	"minoj/internal/model"
)

const (
	caseOutFile = "test.out"
	caseErrFile = "test.err"
)

// graceTimeout is added to every case's wall-clock wait
const graceTimeout = 500 * time.Millisecond

// runCase executes the compiled artifact against one problem case and
// produces its verdict. The artifact reads the case input on stdin and
// writes to scratch files; the wait is bounded by the case time limit
// plus a fixed grace.
func runCase(ctx context.Context, dir string, problemCase *config.ProblemCase, id uint64, ptype model.ProblemType, spj []string) model.Case {
	systemError := func(err error) model.Case {
		return model.Case{ID: id, Result: model.ResultSystemError, Info: err.Error()}
	}

	stdin, err := os.Open(problemCase.InputFile)
	if err != nil {
		return systemError(err)
	}
	defer stdin.Close()

	outPath := filepath.Join(dir, caseOutFile)
	errPath := filepath.Join(dir, caseErrFile)
	stdout, err := os.Create(outPath)
	if err != nil {
		return systemError(err)
	}
	stderr, err := os.Create(errPath)
	if err != nil {
		stdout.Close()
		return systemError(err)
	}

	limit := time.Duration(problemCase.TimeLimit) * time.Microsecond
	runCtx, cancel := context.WithTimeout(ctx, limit+graceTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, filepath.Join(dir, binaryName))
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	runErr := cmd.Run()
	stdout.Close()
	stderr.Close()

	if runCtx.Err() == context.DeadlineExceeded {
		return model.Case{ID: id, Result: model.ResultTimeLimitExceeded}
	}
	if runErr != nil {
		// a crash that wrote nothing to stderr still reaches the
		// comparator, matching the stderr-only error detection
		if _, ok := runErr.(*exec.ExitError); !ok {
			return systemError(runErr)
		}
	}

	errText, err := os.ReadFile(errPath)
	if err != nil {
		return systemError(err)
	}
	if len(errText) > 0 {
		return model.Case{ID: id, Result: model.ResultRuntimeError}
	}

	verdict, info, err := check(ctx, ptype, outPath, problemCase.AnswerFile, spj, dir)
	if err != nil {
		return systemError(err)
	}
	switch verdict {
	case checkFailed:
		return model.Case{ID: id, Result: model.ResultSPJError, Info: info}
	case checkWrong:
		return model.Case{ID: id, Result: model.ResultWrongAnswer, Info: info}
	}

	// elapsed spans spawn through comparison; the limit is enforced
	// against this measurement
	elapsed := uint64(time.Since(start).Microseconds())
	if elapsed > problemCase.TimeLimit {
		return model.Case{ID: id, Result: model.ResultTimeLimitExceeded, Time: elapsed, Info: info}
	}
	return model.Case{ID: id, Result: model.ResultAccepted, Time: elapsed, Info: info}
}
