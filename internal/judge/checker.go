package judge

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"minoj/internal/model"
)

// checkVerdict is the comparator's decision for one case
type checkVerdict int

const (
	checkAccepted checkVerdict = iota
	checkWrong
	// checkFailed means the special judge misbehaved
	checkFailed
)

const (
	spjOutFile = "spj.out"
	spjErrFile = "spj.err"
)

// check compares the produced output against the expected answer
// according to the problem type and returns the verdict plus the info
// string. A non-nil error means the comparator infrastructure itself
// failed (unreadable files), not that the answer was wrong.
func check(ctx context.Context, ptype model.ProblemType, outPath, ansPath string, spj []string, dir string) (checkVerdict, string, error) {
	switch ptype {
	case model.ProblemStrict:
		return compareStrict(outPath, ansPath)
	case model.ProblemSpj:
		v, info := runSpecialJudge(ctx, spj, outPath, ansPath, dir)
		return v, info, nil
	default:
		// standard and dynamic_ranking compare the same way
		return compareStandard(outPath, ansPath)
	}
}

// compareStandard splits both texts into lines, drops a trailing empty
// line, and compares line counts and each line with trailing
// whitespace removed.
func compareStandard(outPath, ansPath string) (checkVerdict, string, error) {
	out, err := os.ReadFile(outPath)
	if err != nil {
		return checkWrong, "", err
	}
	ans, err := os.ReadFile(ansPath)
	if err != nil {
		return checkWrong, "", err
	}

	outLines := splitLines(string(out))
	ansLines := splitLines(string(ans))
	if len(outLines) != len(ansLines) {
		return checkWrong, "", nil
	}
	for i := range ansLines {
		if strings.TrimRight(outLines[i], " \t\r") != strings.TrimRight(ansLines[i], " \t\r") {
			return checkWrong, "", nil
		}
	}
	return checkAccepted, "", nil
}

// compareStrict requires byte-for-byte equality
func compareStrict(outPath, ansPath string) (checkVerdict, string, error) {
	out, err := os.ReadFile(outPath)
	if err != nil {
		return checkWrong, "", err
	}
	ans, err := os.ReadFile(ansPath)
	if err != nil {
		return checkWrong, "", err
	}
	if string(out) != string(ans) {
		return checkWrong, "", nil
	}
	return checkAccepted, "", nil
}

// runSpecialJudge invokes the spj command with the output and answer
// paths appended. The spj must keep stderr empty and print exactly two
// stdout lines: a verdict token and an info line. Any deviation is a
// spj failure.
func runSpecialJudge(ctx context.Context, spj []string, outPath, ansPath, dir string) (checkVerdict, string) {
	if len(spj) == 0 {
		return checkFailed, ""
	}

	stdout, err := os.Create(filepath.Join(dir, spjOutFile))
	if err != nil {
		return checkFailed, ""
	}
	stderr, err := os.Create(filepath.Join(dir, spjErrFile))
	if err != nil {
		stdout.Close()
		return checkFailed, ""
	}

	argv := append(append([]string{}, spj...), outPath, ansPath)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	runErr := cmd.Run()
	stdout.Close()
	stderr.Close()
	if runErr != nil {
		// a nonzero exit is the spj's business; failing to run is ours
		if _, ok := runErr.(*exec.ExitError); !ok {
			return checkFailed, ""
		}
	}

	errText, err := os.ReadFile(filepath.Join(dir, spjErrFile))
	if err != nil || len(errText) > 0 {
		return checkFailed, ""
	}
	outText, err := os.ReadFile(filepath.Join(dir, spjOutFile))
	if err != nil {
		return checkFailed, ""
	}

	lines := splitLines(string(outText))
	if len(lines) != 2 {
		return checkFailed, ""
	}
	switch strings.TrimSpace(lines[0]) {
	case string(model.ResultAccepted):
		return checkAccepted, lines[1]
	case string(model.ResultWrongAnswer):
		return checkWrong, lines[1]
	default:
		return checkFailed, lines[1]
	}
}

// splitLines splits on newlines, dropping one trailing empty line
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
