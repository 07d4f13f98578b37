//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

const e2eAPIKey = "e2e-test-api-key"

// attireServer manages a running Attire server process.
type attireServer struct {
	cmd     *exec.Cmd
	dataDir string
	address string
	apiKey  string
	logFile string
}

// baseEnv configures a process entirely through environment variables.
func baseEnv(dataDir string) []string {
	return append(os.Environ(),
		"ATTIRE_DB_PATH="+filepath.Join(dataDir, "attire.db"),
		"ATTIRE_API_KEY="+e2eAPIKey,
		"ATTIRE_CONFIG_PATH="+filepath.Join(dataDir, "nonexistent.yaml"), // skip YAML file
		"ATTIRE_PROFILES_PATH=",
		"OPENWEATHER_API_KEY=", // weather stays null
		"ATTIRE_RENDER_PROVIDER=pollinations",
	)
}

// startAttire launches the Attire binary and waits for it to become healthy.
// extraEnv is appended after the base environment and wins on conflicts.
func startAttire(t *testing.T, dataDir string, extraEnv ...string) *attireServer {
	t.Helper()

	if attireBin == "" {
		t.Skip("attire binary not available")
	}

	port := freePort(t)
	address := fmt.Sprintf("127.0.0.1:%d", port)
	logFile := filepath.Join(dataDir, "attire.log")

	cmd := exec.Command(attireBin)
	cmd.Env = append(baseEnv(dataDir), fmt.Sprintf("ATTIRE_PORT=%d", port))
	cmd.Env = append(cmd.Env, extraEnv...)

	lf, err := os.Create(logFile)
	if err != nil {
		t.Fatalf("create log file: %v", err)
	}
	cmd.Stdout = lf
	cmd.Stderr = lf

	if err := cmd.Start(); err != nil {
		lf.Close()
		t.Fatalf("start attire: %v", err)
	}

	s := &attireServer{
		cmd:     cmd,
		dataDir: dataDir,
		address: address,
		apiKey:  e2eAPIKey,
		logFile: logFile,
	}

	t.Cleanup(func() {
		s.stop()
		lf.Close()
	})

	if err := s.waitHealthy(10 * time.Second); err != nil {
		logs, _ := os.ReadFile(logFile)
		t.Fatalf("attire not healthy: %v\n%s", err, logs)
	}
	return s
}

func (s *attireServer) stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(os.Interrupt)
		_ = s.cmd.Wait()
	}
}

func (s *attireServer) baseURL() string {
	return fmt.Sprintf("http://%s", s.address)
}

func (s *attireServer) waitHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("%s/api/v1/health", s.baseURL())
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("attire not healthy after %s", timeout)
}

// do sends an authenticated request and returns the status and body.
func (s *attireServer) do(t *testing.T, method, path string, body any, headers map[string]string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, s.baseURL()+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// runCLI runs an attire subcommand against dataDir and returns its stdout.
func runCLI(t *testing.T, dataDir string, args ...string) string {
	t.Helper()

	if attireBin == "" {
		t.Skip("attire binary not available")
	}

	cmd := exec.Command(attireBin, args...)
	cmd.Env = baseEnv(dataDir)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("attire %v: %v\n%s", args, err, stderr.String())
	}
	return stdout.String()
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("find free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// writeDataset writes a small YAML catalog to dataDir and returns its path.
func writeDataset(t *testing.T, dataDir string) string {
	t.Helper()
	path := filepath.Join(dataDir, "catalog.yaml")
	content := `items:
  - id: shirt-1
    name: Linen Shirt
    type: top
    gender: male
    body_shape_suitability: [athletic]
    occasion: [casual]
    weather_suitability: {min_temp: 18, max_temp: 35, rain: false}
    style: relaxed
    color: white
    fabric: linen
  - id: dress-1
    name: Wrap Dress
    type: dress
    gender: female
    body_shape_suitability: [pear]
    occasion: [party]
    weather_suitability: {min_temp: 15, max_temp: 30, rain: false}
    style: elegant
    color: red
    fabric: silk
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}
