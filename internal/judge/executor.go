package judge

import (
	"context"
	"os"
	"path/filepath"

	"minoj/internal/config"
	"minoj/internal/model"
	"minoj/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome is the judged portion of a job record
type Outcome struct {
	Result model.Result
	Score  float64
	Cases  []model.Case
}

// Executor compiles a submission and runs it against the problem's
// cases. Judging never fails: infrastructure trouble surfaces as case
// verdicts, so the caller always gets a complete record.
type Executor struct {
	cfg      *config.Config
	workRoot string
}

// NewExecutor creates an executor whose scratch directories live under
// workRoot (the system temp dir when empty)
func NewExecutor(cfg *config.Config, workRoot string) *Executor {
	if workRoot == "" {
		workRoot = os.TempDir()
	}
	return &Executor{cfg: cfg, workRoot: workRoot}
}

// Judge runs the full compile-and-test workflow for an admitted
// submission. The request's language and problem must already be
// validated by the gate.
func (e *Executor) Judge(ctx context.Context, req *model.JobRequest) Outcome {
	problem := e.cfg.Problem(req.ProblemID)
	lang := e.cfg.Language(req.Language)

	dir := filepath.Join(e.workRoot, "judge-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error(ctx, "create scratch dir", zap.Error(err))
		return systemFailure(problem, err)
	}
	defer os.RemoveAll(dir)

	case0 := compile(ctx, lang, req.SourceCode, dir)
	cases := []model.Case{case0}

	if case0.Result != model.ResultCompilationSuccess {
		// all cases stay Waiting when the compile failed
		for i := range problem.Cases {
			cases = append(cases, model.Case{ID: uint64(i + 1), Result: model.ResultWaiting})
		}
		return Outcome{Result: model.ResultCompilationError, Score: 0, Cases: cases}
	}

	result := model.ResultAccepted
	score := 0.0
	spj := []string(problem.SpecialJudge())

	// the fraction of each case score granted at judge time; the rest
	// of a dynamic_ranking score is allocated on the ranklist
	base := 1.0
	if problem.Type == model.ProblemDynamicRanking {
		base = 1.0 - problem.Ratio()
	}

	if packing := problem.Packing(); packing != nil {
		count := 0
		for _, group := range packing {
			passed := true
			groupScore := 0.0
			for j := range group {
				idx := count + j
				id := uint64(idx + 1)
				if !passed {
					cases = append(cases, model.Case{ID: id, Result: model.ResultSkipped})
					continue
				}
				cs := runCase(ctx, dir, &problem.Cases[idx], id, problem.Type, spj)
				cases = append(cases, cs)
				if cs.Result == model.ResultAccepted {
					groupScore += problem.Cases[idx].Score * base
				} else {
					result = cs.Result
					passed = false
				}
			}
			if passed {
				score += groupScore
			}
			count += len(group)
		}
	} else {
		for i := range problem.Cases {
			cs := runCase(ctx, dir, &problem.Cases[i], uint64(i+1), problem.Type, spj)
			cases = append(cases, cs)
			if cs.Result == model.ResultAccepted {
				score += problem.Cases[i].Score * base
			} else {
				result = cs.Result
			}
		}
	}

	return Outcome{Result: result, Score: score, Cases: cases}
}

// systemFailure synthesizes a complete record when judging could not
// even start
func systemFailure(problem *config.Problem, err error) Outcome {
	cases := []model.Case{{ID: 0, Result: model.ResultSystemError, Info: err.Error()}}
	for i := range problem.Cases {
		cases = append(cases, model.Case{ID: uint64(i + 1), Result: model.ResultWaiting})
	}
	return Outcome{Result: model.ResultSystemError, Score: 0, Cases: cases}
}
