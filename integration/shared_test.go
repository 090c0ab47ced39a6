//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

// sheet holds two locations over two months. Alpha beats Beta on every
// metric, and Beta improves into February.
const sheet = `Clinic,Date,Net_Profit_Percent,Patient_Satisfaction_Score,Staff_Turnover_Rate
Alpha Clinic,2024-01-15,16%,92%,10%
Beta Clinic,2024-01-15,8%,70%,30%
Alpha Clinic,2024-02-15,17%,93%,9%
Beta Clinic,2024-02-15,11%,78%,22%
`

var (
	// sharedBinaryPath holds the path to a locscore binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getLocscoreBinary returns the path to the locscore binary, building it once if needed.
func getLocscoreBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "locscore-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "locscore")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build locscore: %v", err))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// runLocscore runs the binary in dir and returns its stdout. Stderr is
// attached to the test log when the command fails.
func runLocscore(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getLocscoreBinary(), args...)
	cmd.Dir = dir
	var stderr []byte
	out, err := cmd.Output()
	if exitErr, ok := err.(*exec.ExitError); ok {
		stderr = exitErr.Stderr
	}
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(out), string(stderr))
	}
	return string(out), err
}

// writeSheet writes the test sheet into dir and returns its absolute path.
func writeSheet(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "metrics.csv")
	if err := os.WriteFile(path, []byte(sheet), 0o644); err != nil {
		t.Fatalf("failed to write sheet: %v", err)
	}
	return path
}
