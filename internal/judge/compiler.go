package judge

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"minoj/internal/config"
	"minoj/internal/model"
)

// Command placeholders expanded before the compile command runs.
const (
	sourcePlaceholder = "%INPUT%"
	binaryPlaceholder = "%OUTPUT%"
)

// binaryName is the compiled artifact's name inside the scratch dir
const binaryName = "test"

// compile writes the source into the scratch directory and runs the
// language's compile command. Success is decided by whether the
// compiler kept stderr empty; the pseudo-case's time is the compile
// wall clock in microseconds.
func compile(ctx context.Context, lang *config.Language, source, dir string) model.Case {
	srcPath := filepath.Join(dir, lang.FileName)
	binPath := filepath.Join(dir, binaryName)

	if err := os.WriteFile(srcPath, []byte(source), 0644); err != nil {
		return model.Case{ID: 0, Result: model.ResultSystemError, Info: err.Error()}
	}

	argv := expandCommand(lang.Command, srcPath, binPath)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := uint64(time.Since(start).Microseconds())

	result := model.ResultCompilationSuccess
	if stderr.Len() > 0 || err != nil {
		result = model.ResultCompilationError
	}
	return model.Case{ID: 0, Result: result, Time: elapsed}
}

// expandCommand substitutes the source and binary paths into the
// configured command vector
func expandCommand(command []string, srcPath, binPath string) []string {
	argv := make([]string, len(command))
	for i, arg := range command {
		arg = strings.ReplaceAll(arg, sourcePlaceholder, srcPath)
		arg = strings.ReplaceAll(arg, binaryPlaceholder, binPath)
		argv[i] = arg
	}
	return argv
}
